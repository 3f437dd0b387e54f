package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		comma   rune
		want    []domain.MedalRecord
		wantErr bool
	}{
		{
			name:  "standard header",
			input: "Name,Sex,Year,Medal,Country\nA,F,1996,Gold,Norway\nB,M,2000,NA,Chad\n",
			comma: ',',
			want: []domain.MedalRecord{
				{Athlete: "A", Sex: domain.SexFemale, Year: 1996, Medal: domain.MedalGold, Country: "Norway"},
				{Athlete: "B", Sex: domain.SexMale, Year: 2000, Country: "Chad"},
			},
		},
		{
			name:  "reordered case-insensitive columns with extras",
			input: "COUNTRY,medal,Event,year\nKenya,Silver,800m,2012\n",
			comma: ',',
			want:  []domain.MedalRecord{{Country: "Kenya", Medal: domain.MedalSilver, Year: 2012}},
		},
		{
			name:  "team alias and semicolons",
			input: "Team;Medal\nItaly;Bronze\n",
			comma: ';',
			want:  []domain.MedalRecord{{Country: "Italy", Medal: domain.MedalBronze}},
		},
		{
			name:  "short rows keep their leading columns",
			input: "Country,Medal\nA,Gold\nB\nC,Silver\n",
			comma: ',',
			want: []domain.MedalRecord{
				{Country: "A", Medal: domain.MedalGold},
				{Country: "B"},
				{Country: "C", Medal: domain.MedalSilver},
			},
		},
		{
			name:  "missing trailing column still counts the medal",
			input: "Country,Medal,Name,Year,Sex\nSwitzerland,Gold,Anna,2000\n",
			comma: ',',
			want: []domain.MedalRecord{
				{Country: "Switzerland", Medal: domain.MedalGold, Athlete: "Anna", Year: 2000},
			},
		},
		{
			name:  "short and long rows mixed",
			input: "Name,Sex,Year,Medal,Country\nBeat,M,2004,Gold\nCla,F,2008,Silver,Switzerland,extra\n",
			comma: ',',
			want: []domain.MedalRecord{
				{Athlete: "Beat", Sex: domain.SexMale, Year: 2004, Medal: domain.MedalGold},
				{Athlete: "Cla", Sex: domain.SexFemale, Year: 2008, Medal: domain.MedalSilver, Country: "Switzerland"},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffCountry,Medal\nA,Gold\n",
			comma: ',',
			want:  []domain.MedalRecord{{Country: "A", Medal: domain.MedalGold}},
		},
		{name: "empty document", input: "", comma: ',', want: []domain.MedalRecord{}},
		{name: "missing country column", input: "Name,Medal\nA,Gold\n", comma: ',', wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSV(strings.NewReader(tt.input), tt.comma)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVSource_Load(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "Country,Medal\nA,Gold\n")
	b := writeFile(t, dir, "b.csv", "Country,Medal\nB,Silver\nB,Gold\n")

	records, err := NewCSVSource(a, b).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "A", records[0].Country)

	bad := writeFile(t, dir, "bad.csv", "Name\nX\n")
	_, err = NewCSVSource(a, bad).Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrMalformedDataset)
}

func TestCreateCSVSource(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		options map[string]any
		wantErr bool
		comma   rune
	}{
		{name: "defaults", paths: []string{"a.csv"}, comma: ','},
		{name: "tab delimiter", paths: []string{"a.csv"}, options: map[string]any{"delimiter": "\t"}, comma: '\t'},
		{name: "no paths", wantErr: true},
		{name: "long delimiter", paths: []string{"a.csv"}, options: map[string]any{"delimiter": ";;"}, wantErr: true},
		{name: "quote delimiter", paths: []string{"a.csv"}, options: map[string]any{"delimiter": `"`}, wantErr: true},
		{name: "non-string delimiter", paths: []string{"a.csv"}, options: map[string]any{"delimiter": 9}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := CreateCSVSource(tt.paths, tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.comma, src.(*CSVSource).comma)
			assert.Equal(t, FormatCSV, src.Name())
		})
	}
}
