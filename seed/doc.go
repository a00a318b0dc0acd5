// Package seed loads passages into an index: text in, embedding
// computed, passage upserted. Batches run concurrently on a worker
// pool. It backs the seeder command and any bulk import path.
package seed
