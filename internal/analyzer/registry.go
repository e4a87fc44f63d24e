package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant. seed only
// affects the random detector.
func NewDetector(variant string, seed int64) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	case "random":
		return NewRandomDetector(seed), nil
	case "grid":
		return NewGridDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
