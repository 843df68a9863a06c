package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinalReport(t *testing.T) {
	snap := Snapshot{
		Generation: 3,
		Population: []Strategy{{Gene: 0x8040, Offer: 0.5, MinAccept: 0.25}, {Gene: 0x4080, Offer: 0.25, MinAccept: 0.5}},
		History: []GenerationStat{
			{Generation: 0, AverageGain: 20},
			{Generation: 1, AverageGain: 35},
			{Generation: 2, AverageGain: 30, Encounters: 10, Accepted: 4},
		},
	}

	r := NewFinalReport("run-1", 42, testConfig(), snap, false)
	assert.Equal(t, 3, r.Generations)
	assert.Equal(t, 35.0, r.BestAverageGain)
	assert.Equal(t, 1, r.BestAtGen)
	assert.Equal(t, 30.0, r.Final.AverageGain)
	assert.InDelta(t, 0.4, r.Final.AcceptanceRate(), 1e-12)
	assert.InDelta(t, 0.375, r.MeanOffer, 1e-12)
	assert.InDelta(t, 0.375, r.MeanMinAccept, 1e-12)
	assert.Nil(t, r.History)
	assert.Nil(t, r.Population)

	verbose := NewFinalReport("run-1", 42, testConfig(), snap, true)
	assert.Len(t, verbose.History, 3)
	assert.Len(t, verbose.Population, 2)
}

func TestWriters(t *testing.T) {
	reports := []FinalReport{
		{RunID: "a", Seed: 1, Final: GenerationStat{AverageGain: 10}},
		{RunID: "b", Seed: 2, Final: GenerationStat{AverageGain: 30}},
	}

	var text bytes.Buffer
	WriteTextFinal(&text, reports[0])
	WriteTextReport(&text, GenerationStat{Generation: 5, AverageGain: 12.5, Encounters: 4, Accepted: 1})
	WriteReplicateSummary(&text, reports)
	out := text.String()
	assert.Contains(t, out, "FINAL RESULT")
	assert.Contains(t, out, "Gen    5")
	assert.Contains(t, out, "25.0%")
	assert.Less(t, bytes.Index(text.Bytes(), []byte("[seed 2")), bytes.Index(text.Bytes(), []byte("[seed 1")))

	var js bytes.Buffer
	require.NoError(t, WriteJSONFinal(&js, reports))
	var decoded []FinalReport
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "b", decoded[1].RunID)
}
