// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CatalogReader: Reads raw catalog tables (CSV)
//   - CatalogStore: Enriched catalog persistence
//   - EmbeddingService: Generates product and query embeddings
//   - IntentClassifier: Zero-shot intent classification
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingCache: Avoids re-embedding unchanged product names.
//   - LLMService: Language model operations. Only the LLM classifier needs it.
//   - PromptStore: User-editable prompt templates. Defaults are compiled in.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
