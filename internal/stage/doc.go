// Package stage holds the configuration snapshot and the pure functions that
// turn a raw counter into a growth stage.
//
// Stage i (1-indexed threshold) is reached when the counter is at least
// Stages[i-1]; stage 0 is the unconditional baseline. The result is clamped
// to the images that exist, so a threshold list longer than the image list
// never produces an index without an image slot.
//
//	stages = [10, 30, 60], 4 images
//	total:   0..9 -> 0   10..29 -> 1   30..59 -> 2   60.. -> 3
package stage
