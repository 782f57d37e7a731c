package mathutil

import (
	"math"
	"testing"
)

func TestLogSumExp(t *testing.T) {
	// log(exp(log(2)) + exp(log(3))) = log(5)
	got := LogSumExp([]float64{math.Log(2), math.Log(3)})
	want := math.Log(5)
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("LogSumExp(log(2), log(3)) = %f, want %f", got, want)
	}
}

func TestLogSumExpLargeValues(t *testing.T) {
	got := LogSumExp([]float64{1000, 1000})
	want := 1000 + math.Log(2)
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("LogSumExp(1000, 1000) = %f, want %f", got, want)
	}
}

func TestLogSoftmax(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	LogSoftmax(v)
	sum := 0.0
	for _, x := range v {
		sum += math.Exp(x)
	}
	if math.Abs(sum-1) > 1e-10 {
		t.Errorf("exp(log-softmax) sums to %f, want 1", sum)
	}
}

func TestViable(t *testing.T) {
	if Viable(LogZero) {
		t.Error("LogZero should not be viable")
	}
	if Viable(math.Inf(-1)) {
		t.Error("-Inf should not be viable")
	}
	if Viable(math.NaN()) {
		t.Error("NaN should not be viable")
	}
	if !Viable(-250.0) {
		t.Error("-250 should be viable")
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.235001, 1.24},
		{0.004, 0},
		{2.0, 2.0},
	}
	for _, c := range cases {
		if got := Round(c.in, 2); got != c.want {
			t.Errorf("Round(%v, 2) = %v, want %v", c.in, got, c.want)
		}
	}
}
