package frame

import (
	"image"

	"gocv.io/x/gocv"
)

// Preprocess runs the foreground pipeline on a color frame and returns a
// single-channel binary map of the same spatial dimensions. Each stage is
// pure and deterministic: grayscale, Gaussian blur, adaptive threshold
// (inverted, so texture is white), median filter, dilation.
//
// The caller owns the returned Mat and must Close it.
func Preprocess(src gocv.Mat, p Params) (gocv.Mat, error) {
	if err := p.Validate(); err != nil {
		return gocv.NewMat(), err
	}
	if src.Empty() {
		return gocv.NewMat(), &ConfigError{Param: "frame", Reason: "input frame is empty"}
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if src.Channels() > 1 {
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	} else {
		src.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred,
		image.Point{X: p.BlurKernel, Y: p.BlurKernel},
		p.BlurSigma, p.BlurSigma, gocv.BorderDefault)

	// Adaptive threshold responds to local contrast rather than absolute
	// brightness, so uneven lighting across the lot does not flip verdicts.
	thresholded := gocv.NewMat()
	defer thresholded.Close()
	gocv.AdaptiveThreshold(blurred, &thresholded, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv,
		p.AdaptiveBlockSize, float32(p.AdaptiveC))

	despeckled := gocv.NewMat()
	defer despeckled.Close()
	gocv.MedianBlur(thresholded, &despeckled, p.MedianKernel)

	kernel := gocv.GetStructuringElement(gocv.MorphRect,
		image.Point{X: p.DilateKernel, Y: p.DilateKernel})
	defer kernel.Close()

	// Thicken surviving edges so partial vehicle outlines still produce a
	// high pixel count inside their region.
	out := despeckled.Clone()
	for i := 0; i < p.DilateIterations; i++ {
		gocv.Dilate(out, &out, kernel)
	}

	return out, nil
}
