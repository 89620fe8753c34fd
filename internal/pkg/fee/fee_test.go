package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_Exactness(t *testing.T) {
	for gross := int64(0); gross < 20000; gross++ {
		f, e := Split(gross)
		if f+e != gross {
			t.Fatalf("gross=%d fee=%d earnings=%d: split does not sum back", gross, f, e)
		}
		if f < 0 || e < 0 {
			t.Fatalf("gross=%d fee=%d earnings=%d: negative component", gross, f, e)
		}
	}
}

func TestSplit_RoundHalfUp(t *testing.T) {
	cases := []struct {
		gross, fee int64
	}{
		{0, 0},
		{1, 0},   // 0.1 rounds down
		{5, 1},   // 0.5 rounds up
		{14, 1},  // 1.4 rounds down
		{15, 2},  // 1.5 rounds up
		{100, 10},
		{105, 11},
		{7500, 750},
		{9999, 1000},
	}
	for _, c := range cases {
		f, e := Split(c.gross)
		assert.Equal(t, c.fee, f, "gross=%d", c.gross)
		assert.Equal(t, c.gross-c.fee, e, "gross=%d", c.gross)
	}
}

func TestSplit_SampleBooking(t *testing.T) {
	// 5 days at 15 EUR/day = 7500 cents gross.
	f, e := Split(7500)
	assert.Equal(t, int64(750), f)
	assert.Equal(t, int64(6750), e)
}
