package optimize

import "bfc/internal/span"

func merge(a, b span.Position) span.Position {
	return span.Merge(a, b)
}
