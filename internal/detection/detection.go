// Package detection reads lesion outlines out of the segmentation service's
// workflow responses.
package detection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"skin-sight/pkg/geometry"
)

// ErrMalformedResponse is returned when the response is not valid JSON.
var ErrMalformedResponse = errors.New("malformed detection response")

// workflowKey holds the model step output in workflow responses.
const workflowKey = "$steps.model.predictions"

// Point is one outline vertex as the service reports it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Prediction is one segmented instance.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Points     []Point `json:"points"`
}

// Outline converts the prediction's points to pixels, truncating toward zero.
func (p Prediction) Outline() geometry.Outline {
	o := make(geometry.Outline, len(p.Points))
	for i, pt := range p.Points {
		o[i] = geometry.Point2D{X: pt.X, Y: pt.Y}.ToInt()
	}
	return o
}

type predictionList struct {
	Predictions []Prediction `json:"predictions"`
}

// Parse finds the first prediction with outline points. The response may be:
//
//  1. a list whose first element carries the workflow model step
//     ({"$steps.model.predictions": {"predictions": [...]}}); only the first
//     prediction is considered
//  2. a list of items that each carry "predictions"
//  3. an object carrying "predictions"
//
// A well-formed response without points yields (nil, nil).
func Parse(data []byte) (*Prediction, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		if first, ok := v[0].(map[string]any); ok {
			if step, ok := first[workflowKey]; ok {
				return fromWorkflowStep(step)
			}
		}
		for _, item := range v {
			if p := firstWithPoints(item); p != nil {
				return p, nil
			}
		}
	case map[string]any:
		return firstWithPoints(v), nil
	}
	return nil, nil
}

// ParseOutline returns the first outline in a response, or an empty outline
// when the response has none.
func ParseOutline(data []byte) (geometry.Outline, error) {
	p, err := Parse(data)
	if err != nil || p == nil {
		return nil, err
	}
	return p.Outline(), nil
}

// LoadOutline reads a saved response from disk.
func LoadOutline(path string) (geometry.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detection response: %w", err)
	}
	return ParseOutline(data)
}

func fromWorkflowStep(step any) (*Prediction, error) {
	list, ok := decode(step)
	if !ok || len(list.Predictions) == 0 || len(list.Predictions[0].Points) == 0 {
		return nil, nil
	}
	p := list.Predictions[0]
	return &p, nil
}

func firstWithPoints(item any) *Prediction {
	list, ok := decode(item)
	if !ok {
		return nil
	}
	for _, p := range list.Predictions {
		if len(p.Points) > 0 {
			return &p
		}
	}
	return nil
}

// decode re-reads a generic JSON value as a prediction list. Values of the
// wrong shape are skipped rather than failing the whole response.
func decode(v any) (predictionList, bool) {
	if _, ok := v.(map[string]any); !ok {
		return predictionList{}, false
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return predictionList{}, false
	}
	var list predictionList
	if err := json.Unmarshal(buf, &list); err != nil {
		return predictionList{}, false
	}
	return list, true
}
