package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanSixtyMinutesInTwentyMinuteChunks(t *testing.T) {
	t.Parallel()

	windows, err := Plan(3_600_000, 20)
	require.NoError(t, err)
	require.Equal(t, []Window{
		{Index: 1, StartMS: 0, EndMS: 1_200_000},
		{Index: 2, StartMS: 1_200_000, EndMS: 2_400_000},
		{Index: 3, StartMS: 2_400_000, EndMS: 3_600_000},
	}, windows)
}

func TestPlanShorterThanOneChunk(t *testing.T) {
	t.Parallel()

	windows, err := Plan(1_000_000, 20)
	require.NoError(t, err)
	require.Equal(t, []Window{{Index: 1, StartMS: 0, EndMS: 1_000_000}}, windows)
}

func TestPlanZeroDurationYieldsNoWindows(t *testing.T) {
	t.Parallel()

	windows, err := Plan(0, 20)
	require.NoError(t, err)
	require.Empty(t, windows)
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Plan(1000, 0)
	require.ErrorIs(t, err, ErrInvalidChunkMinutes)

	_, err = Plan(1000, -3)
	require.ErrorIs(t, err, ErrInvalidChunkMinutes)

	_, err = Plan(-1, 20)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestPlanCoversDurationContiguously(t *testing.T) {
	t.Parallel()

	durations := []int64{1, 59_999, 60_000, 60_001, 1_199_999, 1_200_000, 1_200_001, 3_599_999, 7_384_512}
	for _, duration := range durations {
		for _, minutes := range []int{1, 2, 7, 20, 45} {
			windows, err := Plan(duration, minutes)
			require.NoError(t, err)

			chunkMS := int64(minutes) * 60_000
			expectedCount := (duration + chunkMS - 1) / chunkMS
			require.Len(t, windows, int(expectedCount), "duration=%d minutes=%d", duration, minutes)

			var cursor int64
			for i, w := range windows {
				require.Equal(t, i+1, w.Index)
				require.Equal(t, cursor, w.StartMS)
				require.Less(t, w.StartMS, w.EndMS)
				require.LessOrEqual(t, w.Length(), chunkMS)
				if i < len(windows)-1 {
					require.Equal(t, chunkMS, w.Length())
				}
				cursor = w.EndMS
			}
			require.Equal(t, duration, cursor)
		}
	}
}

func TestWindowString(t *testing.T) {
	t.Parallel()

	w := Window{Index: 2, StartMS: 1_200_000, EndMS: 2_130_000}
	require.Equal(t, "part 2: 20.0–35.5 min", w.String())
	require.InDelta(t, 20.0, w.StartMinutes(), 1e-9)
	require.InDelta(t, 35.5, w.EndMinutes(), 1e-9)
}

func TestParseChunkMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "default", raw: "", want: 20},
		{name: "explicit", raw: "15", want: 15},
		{name: "padded", raw: " 5 ", want: 5},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-4", wantErr: true},
		{name: "fraction", raw: "1.5", wantErr: true},
		{name: "word", raw: "twenty", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseChunkMinutes(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidChunkMinutes)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
