// Package domain contains the core business entities for docent.
// These types have no dependencies on infrastructure - they represent
// the pure model of single-document question answering with citations.
package domain
