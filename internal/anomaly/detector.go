package anomaly

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Labels follow the exported model's convention: -1 flags an outlier,
// 1 a normal reading.
const (
	LabelOutlier = -1
	LabelNormal  = 1
)

// FeatureOrder is the fixed vector layout the detector was trained on.
var FeatureOrder = []string{"cpu_usage", "memory_usage", "wifi_signal", "reader_response", "error_rate"}

// Detector is a pre-trained outlier detector over the five reader health
// metrics: a per-feature robust z-score with a global score threshold,
// exported at training time as a flat JSON artifact. It is loaded once at
// startup and read-only afterwards.
type Detector struct {
	Features  []string  `json:"features"`
	Means     []float64 `json:"means"`
	Scales    []float64 `json:"scales"`
	Threshold float64   `json:"threshold"`
}

// Load reads a detector artifact from disk. A missing file is an error the
// caller may treat as "run without a model".
func Load(path string) (*Detector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Detector
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("anomaly: decode artifact: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Detector) validate() error {
	n := len(d.Features)
	if n == 0 {
		return fmt.Errorf("anomaly: artifact has no features")
	}
	if len(d.Means) != n || len(d.Scales) != n {
		return fmt.Errorf("anomaly: artifact shape mismatch: %d features, %d means, %d scales",
			n, len(d.Means), len(d.Scales))
	}
	for i, s := range d.Scales {
		if s <= 0 {
			return fmt.Errorf("anomaly: non-positive scale for feature %s", d.Features[i])
		}
	}
	if d.Threshold <= 0 {
		return fmt.Errorf("anomaly: non-positive threshold")
	}
	return nil
}

// Score returns the detector's outlier score for x: the largest absolute
// per-feature deviation in scale units.
func (d *Detector) Score(x []float64) (float64, error) {
	if len(x) != len(d.Features) {
		return 0, fmt.Errorf("anomaly: expected %d features, got %d", len(d.Features), len(x))
	}
	var score float64
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("anomaly: feature %s is not a finite number", d.Features[i])
		}
		dev := math.Abs(v-d.Means[i]) / d.Scales[i]
		if dev > score {
			score = dev
		}
	}
	return score, nil
}

// Predict labels x with LabelOutlier or LabelNormal.
func (d *Detector) Predict(x []float64) (int, error) {
	score, err := d.Score(x)
	if err != nil {
		return 0, err
	}
	if score > d.Threshold {
		return LabelOutlier, nil
	}
	return LabelNormal, nil
}
