package arrays

// Batch splits source into consecutive chunks of at most batchSize elements. A non-positive
// batchSize yields a single chunk holding everything.
func Batch[T any](source []T, batchSize int) [][]T {
	var batches [][]T
	if batchSize <= 0 {
		batchSize = len(source)
	}

	for batchSize < len(source) {
		source, batches = source[batchSize:], append(batches, source[0:batchSize:batchSize])
	}

	// Append the last batch if any items are left
	if len(source) > 0 {
		batches = append(batches, source)
	}

	return batches
}
