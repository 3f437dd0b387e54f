package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMedal(t *testing.T) {
	tests := []struct {
		input string
		want  Medal
	}{
		{"Gold", MedalGold},
		{"silver", MedalSilver},
		{" BRONZE ", MedalBronze},
		{"NA", MedalNone},
		{"", MedalNone},
		{"Platinum", MedalNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMedal(tt.input))
		})
	}
}

func TestMedal_String(t *testing.T) {
	assert.Equal(t, "Gold", MedalGold.String())
	assert.Equal(t, "Silver", MedalSilver.String())
	assert.Equal(t, "Bronze", MedalBronze.String())
	assert.Equal(t, "None", MedalNone.String())
	assert.Equal(t, "None", Medal(42).String())
}

func TestParseSex(t *testing.T) {
	assert.Equal(t, SexMale, ParseSex("M"))
	assert.Equal(t, SexFemale, ParseSex(" f "))
	assert.Equal(t, SexUnknown, ParseSex("X"))
	assert.Equal(t, "", SexUnknown.String())
}

func TestMedalRecord_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MedalRecord
		wantErr bool
	}{
		{
			name:  "well formed row",
			input: `{"Name":"Dawn Fraser","Sex":"F","Year":1964,"Medal":"Gold","Country":"Australia"}`,
			want:  MedalRecord{Country: "Australia", Medal: MedalGold, Athlete: "Dawn Fraser", Year: 1964, Sex: SexFemale},
		},
		{
			name:  "year as string and NA medal",
			input: `{"Name":"X","Year":"1996","Medal":"NA","Country":"Chad"}`,
			want:  MedalRecord{Country: "Chad", Athlete: "X", Year: 1996},
		},
		{
			name:  "wrong field types fall back to zero values",
			input: `{"Name":12,"Year":"nineteen","Medal":3,"Country":"Peru","Sex":null}`,
			want:  MedalRecord{Country: "Peru"},
		},
		{
			name:  "missing fields",
			input: `{"Country":"Fiji"}`,
			want:  MedalRecord{Country: "Fiji"},
		},
		{
			name:  "float year is truncated",
			input: `{"Country":"Iran","Year":2008.0,"Medal":"bronze"}`,
			want:  MedalRecord{Country: "Iran", Year: 2008, Medal: MedalBronze},
		},
		{
			name:    "not an object",
			input:   `["Gold"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got MedalRecord
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMedalRecord_MarshalJSON(t *testing.T) {
	r := MedalRecord{Country: "Kenya", Medal: MedalSilver, Athlete: "Rudisha", Year: 2012, Sex: SexMale}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Country":"Kenya","Medal":"Silver","Name":"Rudisha","Year":2012,"Sex":"M"}`, string(data))
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2000, ParseYear("2000"))
	assert.Equal(t, 1988, ParseYear(" 1988.0 "))
	assert.Equal(t, 0, ParseYear(""))
	assert.Equal(t, 0, ParseYear("n/a"))
}
