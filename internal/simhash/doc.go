// Package simhash computes and compares perceptual content hashes.
//
// A hash is a fixed-length bit string encoded as hex nibbles. The
// default flavor is a difference hash: the image is reduced to a
// (size+1) x size grayscale grid and each bit records whether a pixel
// is brighter than its left neighbor. Near-duplicate content yields
// hashes within a small Hamming distance of each other.
//
// The bit length and algorithm are carried in the hash's Flavor so the
// catalog can treat them as configuration rather than hard-coded
// constants.
package simhash
