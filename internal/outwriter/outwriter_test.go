package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *schema.SeriesResult {
	return &schema.SeriesResult{
		Selection: schema.DefaultSelection(),
		Points: []schema.DisplayPoint{
			{Year: 2020, Price: 10000, Label: "2020"},
			{Year: 2021, Month: "June", Price: 12000, Label: "June 2021"},
			{Year: 2024, Price: 15000, Label: "2024"},
		},
		Summary:     schema.Summary{SpotValuation: 15000, NetExitFloor: 13800, AnnualizedYield: 17},
		LastUpdated: "2025-03-14",
		Source:      schema.NetworkSource,
	}
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestWriteSeriesText(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Width: 120, CacheBackend: schema.SQLiteBackend}
	require.NoError(t, writeSeriesText(&buf, sampleResult(), cfg, 1500*time.Microsecond))

	out := buf.String()
	assert.Contains(t, out, "Birkin 25 / Palladium / Precious Skin (Standard regime, Retail listing)")
	assert.Contains(t, out, "June 2021")
	assert.Contains(t, out, "$12,000")
	assert.Contains(t, out, "Spot valuation:   $15,000")
	assert.Contains(t, out, "Net exit floor:   $13,800")
	assert.Contains(t, out, "Annualized yield: 17%")
	assert.Contains(t, out, "Data as of 2025-03-14 from network in 2ms. Cache backend: sqlite")
	assert.NotContains(t, out, "unavailable")
}

func TestWriteSeriesTextEmptyAndDegraded(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	result := &schema.SeriesResult{
		Selection:   schema.DefaultSelection(),
		LastUpdated: "2025-03-14",
		Source:      schema.NetworkSource,
		Degraded:    true,
	}
	var buf bytes.Buffer
	require.NoError(t, writeSeriesText(&buf, result, &contract.Config{Width: 120, UseColors: true}, 0))

	out := buf.String()
	assert.Contains(t, out, "No price history for this selection.")
	assert.Contains(t, out, "Spot valuation:   $0")
	assert.Contains(t, out, "Annualized yield: 0%")
	assert.Contains(t, out, "Live pricing is unavailable")
}

func TestWriteSeriesTableCompact(t *testing.T) {
	var wide, narrow bytes.Buffer
	require.NoError(t, writeSeriesTable(&wide, sampleResult(), false))
	require.NoError(t, writeSeriesTable(&narrow, sampleResult(), true))

	assert.Contains(t, wide.String(), "MONTH")
	assert.NotContains(t, narrow.String(), "MONTH")
	assert.Contains(t, narrow.String(), "$15,000")
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSeriesCSV(&buf, sampleResult()))
	assert.Equal(t, "label,year,month,price\n2020,2020,,10000\nJune 2021,2021,June,12000\n2024,2024,,15000\n", buf.String())
}

func TestWriteSeriesResultFormats(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "series.json")
		require.NoError(t, WriteSeriesResult(sampleResult(), &contract.Config{Output: schema.JSONOut, OutputFile: path}, 0))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got schema.SeriesResult
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, int64(15000), got.Summary.SpotValuation)
		assert.Len(t, got.Points, 3)
		assert.Contains(t, string(data), `"spot_valuation": 15000`)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "series.yaml")
		require.NoError(t, WriteSeriesResult(sampleResult(), &contract.Config{Output: schema.YAMLOut, OutputFile: path}, 0))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, "2025-03-14", got["last_updated"])
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "series.csv")
		require.NoError(t, WriteSeriesResult(sampleResult(), &contract.Config{Output: schema.CSVOut, OutputFile: path}, 0))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "label,year,month,price\n"))
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(dir, "series.parquet")
		require.NoError(t, WriteSeriesResult(sampleResult(), &contract.Config{Output: schema.ParquetOut, OutputFile: path}, 0))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})

	t.Run("parquet without file", func(t *testing.T) {
		err := WriteSeriesResult(sampleResult(), &contract.Config{Output: schema.ParquetOut}, 0)
		assert.ErrorIs(t, err, ErrParquetNeedsFile)
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(dir, "series.txt")
		require.NoError(t, WriteSeriesResult(sampleResult(), &contract.Config{OutputFile: path, Width: 120}, 0))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Spot valuation")
	})
}

func sampleFactors() *schema.FactorsRenderModel {
	return &schema.FactorsRenderModel{
		Description: "Adjusted price = round(raw x regime x hardware x listing)",
		Factors: []schema.FactorRow{
			{Dimension: "regime", Value: "Expansion", Factor: 1.15},
			{Dimension: "hardware", Value: "Rose Gold", Factor: 1.25},
			{Dimension: "listing", Value: "Secondary", Factor: 1.1},
		},
		ExitHaircut: 0.92,
		Formulas:    []string{"net exit floor = round(spot valuation x 0.92)"},
	}
}

func TestWriteFactorsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFactorsText(&buf, sampleFactors()))
	out := buf.String()
	assert.Contains(t, out, "Pricing Factors")
	assert.Contains(t, out, "Rose Gold")
	assert.Contains(t, out, "1.15")
	assert.Contains(t, out, "round(spot valuation x 0.92)")
}

func TestWriteFactorsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFactorsCSV(&buf, sampleFactors()))
	assert.Equal(t, "dimension,value,factor\nregime,Expansion,1.15\nhardware,Rose Gold,1.25\nlisting,Secondary,1.1\n", buf.String())
}

func TestWriteFactorsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	require.NoError(t, WriteFactors(sampleFactors(), &contract.Config{Output: schema.JSONOut, OutputFile: path}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exit_haircut": 0.92`)
}

func TestWriteConsultOutcome(t *testing.T) {
	t.Run("text success", func(t *testing.T) {
		buf := captureStdout(t)
		outcome := schema.ConsultOutcome{Status: schema.ConsultSuccess, Message: schema.ConsultSuccessMessage, ImageURL: "https://media.example.com/bag.jpg"}
		require.NoError(t, WriteConsultOutcome(outcome, &contract.Config{}))
		assert.Equal(t, "✅ "+schema.ConsultSuccessMessage+"\n   Reference image: https://media.example.com/bag.jpg\n", buf.String())
	})

	t.Run("text error", func(t *testing.T) {
		buf := captureStdout(t)
		outcome := schema.ConsultOutcome{Status: schema.ConsultError, Message: schema.ConsultNetworkMessage}
		require.NoError(t, WriteConsultOutcome(outcome, &contract.Config{}))
		assert.Equal(t, "❌ "+schema.ConsultNetworkMessage+"\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		buf := captureStdout(t)
		outcome := schema.ConsultOutcome{Status: schema.ConsultError, Message: schema.ConsultRejectedMessage}
		require.NoError(t, WriteConsultOutcome(outcome, &contract.Config{Output: schema.JSONOut}))
		assert.JSONEq(t, `{"status":"error","message":"`+schema.ConsultRejectedMessage+`"}`, buf.String())
	})
}

func TestWriteChartNotice(t *testing.T) {
	buf := captureStdout(t)
	require.NoError(t, WriteChartNotice("out.png", sampleResult(), &contract.Config{}))
	assert.Equal(t, "📈 Chart of Birkin 25 / Palladium / Precious Skin (3 points, yield 17%) written to out.png\n", buf.String())
}
