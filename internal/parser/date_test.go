package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/exhyte/internal/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  models.Date
	}{
		{name: "json number year", input: json.Number("2021"), want: models.Date{Year: 2021}},
		{name: "float year", input: float64(2019), want: models.Date{Year: 2019}},
		{name: "fractional number", input: 2019.5, want: models.Date{}},
		{name: "out of range number", input: json.Number("12"), want: models.Date{}},
		{name: "bare year string", input: " 2023 ", want: models.Date{Year: 2023}},
		{name: "iso date", input: "2023-05-01", want: models.Date{Year: 2023, Month: 5, Day: 1}},
		{name: "slashed date", input: "2024/7/3", want: models.Date{Year: 2024, Month: 7, Day: 3}},
		{name: "iso month", input: "2022-11", want: models.Date{Year: 2022, Month: 11}},
		{name: "rfc3339", input: "2024-12-13T22:43:14Z", want: models.Date{Year: 2024, Month: 12, Day: 13}},
		{name: "long form", input: "May 1, 2023", want: models.Date{Year: 2023, Month: 5, Day: 1}},
		{name: "written month and year", input: "May 2023", want: models.Date{Year: 2023, Month: 5}},
		{name: "abbreviated month and year", input: "Sep. 2021", want: models.Date{Year: 2021, Month: 9}},
		{name: "month comma year", input: "January, 2020", want: models.Date{Year: 2020, Month: 1}},
		{name: "dotted year month keeps no day", input: "2023.5", want: models.Date{Year: 2023, Month: 5}},
		{name: "compact date", input: "20230501", want: models.Date{Year: 2023, Month: 5, Day: 1}},
		{name: "day after month name", input: "1 May 2023", want: models.Date{Year: 2023, Month: 5, Day: 1}},
		{name: "nonexistent day falls back to year", input: "2021-02-30", want: models.Date{Year: 2021}},
		{name: "leap day", input: "2024-02-29", want: models.Date{Year: 2024, Month: 2, Day: 29}},
		{name: "embedded year", input: "arXiv preprint (2020), revised", want: models.Date{Year: 2020}},
		{name: "invalid month falls back to year", input: "2023-13-45", want: models.Date{Year: 2023}},
		{name: "no year", input: "forthcoming", want: models.Date{}},
		{name: "empty", input: "", want: models.Date{}},
		{name: "nil", input: nil, want: models.Date{}},
		{name: "bool", input: true, want: models.Date{}},
		{name: "object", input: map[string]any{"year": 2020}, want: models.Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.input))
		})
	}
}

func TestDateOrdering(t *testing.T) {
	assert.Equal(t, 1, models.Date{Year: 2023, Month: 5}.Compare(models.Date{Year: 2023}))
	assert.Equal(t, -1, models.Date{Year: 2021, Month: 12, Day: 31}.Compare(models.Date{Year: 2022}))
	assert.Equal(t, 0, models.Date{Year: 2020, Month: 1, Day: 2}.Compare(models.Date{Year: 2020, Month: 1, Day: 2}))
	assert.Equal(t, "2023-05", models.Date{Year: 2023, Month: 5}.String())
	assert.Empty(t, models.Date{}.String())
}
