// Package dither converts normalized float samples to signed integer PCM
// with optional dither noise.
//
// Full scale is 2^(bits-1): an input of -1 maps to the most negative code
// and values at or above +1 are limited to the most positive one. Dither
// amplitude is given in LSB.
package dither
