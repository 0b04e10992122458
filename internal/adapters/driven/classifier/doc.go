// Package classifier groups the zero-shot intent classifier adapters.
//
// Both adapters receive their candidate labels from the caller on every call;
// neither carries a built-in label set.
//
//   - embedding: scores labels by cosine similarity between the query and a
//     hypothesis sentence per label, normalised with a softmax.
//   - llm: asks a language model to pick a label and report its confidence.
package classifier
