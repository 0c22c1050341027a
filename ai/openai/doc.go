// Package openai implements ai.Embedder against any OpenAI-compatible
// embedding API, including local servers such as Ollama or llama.cpp.
package openai
