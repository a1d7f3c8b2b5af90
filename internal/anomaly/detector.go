// Package anomaly integrates the external unsupervised outlier model. The
// model is a black box: this package only ships it the canonical feature
// matrix and interprets the flags and scores it returns.
package anomaly

import "context"

// Prediction is the model's answer for one feature matrix. Flags and Scores
// are index-aligned with the submitted rows; a lower score means a more
// anomalous row.
type Prediction struct {
	Flags  []bool    `json:"flags"`
	Scores []float64 `json:"scores"`
}

// Detector is the contract with the anomaly model collaborator. Columns is
// the ordered feature-column list the model was trained against; matrix rows
// must follow the same order.
type Detector interface {
	Predict(ctx context.Context, columns []string, matrix [][]float64) (*Prediction, error)
}
