// Package frame implements the deterministic preprocessing pipeline that
// turns a raw color frame into a binary foreground map.
package frame

import "fmt"

// ConfigError reports invalid pipeline parameters. It is fatal to the
// frame being processed, not to the process; the caller skips the frame
// and may retry with corrected parameters.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("frame config: %s: %s", e.Param, e.Reason)
}

// Params configures the preprocessing pipeline. The zero value is invalid;
// start from DefaultParams.
type Params struct {
	BlurKernel        int     `json:"blur_kernel"`
	BlurSigma         float64 `json:"blur_sigma"`
	AdaptiveBlockSize int     `json:"adaptive_block_size"`
	AdaptiveC         float64 `json:"adaptive_c"`
	MedianKernel      int     `json:"median_kernel"`
	DilateKernel      int     `json:"dilate_kernel"`
	DilateIterations  int     `json:"dilate_iterations"`
}

// DefaultParams returns pipeline parameters tuned for daylight lot footage.
func DefaultParams() Params {
	return Params{
		BlurKernel:        3,
		BlurSigma:         1,
		AdaptiveBlockSize: 25,
		AdaptiveC:         16,
		MedianKernel:      5,
		DilateKernel:      3,
		DilateIterations:  1,
	}
}

// Validate checks the parameters, failing fast instead of clamping.
func (p Params) Validate() error {
	if p.BlurKernel <= 0 || p.BlurKernel%2 == 0 {
		return &ConfigError{Param: "blur_kernel", Reason: fmt.Sprintf("must be positive and odd, got %d", p.BlurKernel)}
	}
	if p.BlurSigma <= 0 {
		return &ConfigError{Param: "blur_sigma", Reason: fmt.Sprintf("must be positive, got %g", p.BlurSigma)}
	}
	if p.AdaptiveBlockSize <= 1 || p.AdaptiveBlockSize%2 == 0 {
		return &ConfigError{Param: "adaptive_block_size", Reason: fmt.Sprintf("must be odd and >1, got %d", p.AdaptiveBlockSize)}
	}
	if p.MedianKernel <= 0 || p.MedianKernel%2 == 0 {
		return &ConfigError{Param: "median_kernel", Reason: fmt.Sprintf("must be positive and odd, got %d", p.MedianKernel)}
	}
	if p.DilateKernel <= 0 {
		return &ConfigError{Param: "dilate_kernel", Reason: fmt.Sprintf("must be positive, got %d", p.DilateKernel)}
	}
	if p.DilateIterations < 0 {
		return &ConfigError{Param: "dilate_iterations", Reason: fmt.Sprintf("must not be negative, got %d", p.DilateIterations)}
	}
	return nil
}
