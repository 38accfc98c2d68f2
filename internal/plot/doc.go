// Package plot renders catalog scatters and model profiles to image files
// with gonum/plot. The output format follows the file extension.
package plot
