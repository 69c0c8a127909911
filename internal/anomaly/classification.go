package anomaly

// Classification records what happened to one telemetry sample instead of
// hiding a skipped run behind a swallowed error: either the detector
// evaluated the vector (Outlier tells the result), or it was skipped and
// Reason says why.
type Classification struct {
	Evaluated bool   `json:"evaluated"`
	Outlier   bool   `json:"outlier"`
	Reason    string `json:"reason,omitempty"`
}

func Skipped(reason string) Classification {
	return Classification{Reason: reason}
}

func Evaluated(label int) Classification {
	return Classification{Evaluated: true, Outlier: label == LabelOutlier}
}
