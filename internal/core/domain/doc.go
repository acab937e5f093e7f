// Package domain contains the core business entities for docdex:
// documents, file types, queries, run reports and the error taxonomy.
// It has no dependencies on adapters or infrastructure.
package domain
