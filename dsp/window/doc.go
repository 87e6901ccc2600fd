// Package window generates cosine-sum analysis windows for spectrum reads.
package window
