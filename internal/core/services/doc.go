// Package services contains the core business logic of docent: the
// ingestion pipeline (summarisation, dual indexing) and the query pipeline
// (hybrid retrieval, rank fusion, context assembly, answer generation).
package services
