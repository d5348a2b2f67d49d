package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	helper "campusku_backend/internals/helpers"
)

type storedAnswer struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// ratingTally is the running sum/count across every numeric answer of a window.
type ratingTally struct {
	Sum   float64
	Count int
}

// ratingOf reports whether an answer value is numeric. Numeric strings count.
func ratingOf(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// add folds one response's answers into the tally.
func (t *ratingTally) add(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var answers []storedAnswer
	if err := sonic.Unmarshal(raw, &answers); err != nil {
		return errors.Wrap(err, "decoding answers")
	}
	for _, a := range answers {
		if f, ok := ratingOf(a.Value); ok {
			t.Sum += f
			t.Count++
		}
	}
	return nil
}

func (t ratingTally) average() float64 {
	if t.Count == 0 {
		return 0
	}
	return helper.Round2(t.Sum / float64(t.Count))
}
