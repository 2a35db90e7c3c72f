package flowerhue

// Label is a coarse colour bin assigned to an observation.
type Label string

const (
	Light  Label = "light"
	Medium Label = "medium"
	Dark   Label = "dark"
	White  Label = "White"
	Blue   Label = "Blue"

	// NoFlowerLabel is written for observations whose extracted value is
	// the no-flowers sentinel 0.
	NoFlowerLabel Label = "0"
)

// Classifier maps one extracted channel value to a Label.
type Classifier interface {
	Classify(x float64) Label
}

// TernaryBins classifies a value as light, medium or dark. Values below
// Lower are light, values above Upper are dark, and everything in between,
// bounds included, is medium. A value of exactly 0 is the no-flowers
// sentinel and is labelled NoFlowerLabel regardless of the bounds.
type TernaryBins struct {
	Lower, Upper float64
}

// Classify implements Classifier.
func (b TernaryBins) Classify(x float64) Label {
	if x == 0 {
		return NoFlowerLabel
	}
	if x < b.Lower {
		return Light
	} else if x > b.Upper {
		return Dark
	}
	return Medium
}

// BinaryThreshold splits values at Threshold: values at or below it get
// AtOrBelow, values above it get Above. There is no no-flowers special
// case.
type BinaryThreshold struct {
	Threshold float64
	AtOrBelow Label
	Above     Label
}

// Classify implements Classifier.
func (b BinaryThreshold) Classify(x float64) Label {
	if x <= b.Threshold {
		return b.AtOrBelow
	}
	return b.Above
}

// Variant bundles a classifier with the KMeansData channel it reads and
// the column the extracted value is written to.
type Variant struct {
	Name       string
	Channel    int
	Column     string
	Classifier Classifier
}

var (
	// GeraniumBins are the saturation bounds measured for Geranium.
	GeraniumBins = TernaryBins{Lower: 70.5828523, Upper: 92.75856618}

	// SandblossomThreshold separates white from blue Sandblossom by the
	// third KMeansData channel.
	SandblossomThreshold = BinaryThreshold{Threshold: 3000, AtOrBelow: White, Above: Blue}

	// Geranium classifies saturation (channel 1) into light, medium and dark.
	Geranium = Variant{
		Name:       "geranium",
		Channel:    1,
		Column:     "Saturation",
		Classifier: GeraniumBins,
	}

	// Sandblossom classifies the third KMeansData channel (mean value,
	// stored in the pixels column) into White and Blue.
	Sandblossom = Variant{
		Name:       "sandblossom",
		Channel:    2,
		Column:     "pixels",
		Classifier: SandblossomThreshold,
	}
)
