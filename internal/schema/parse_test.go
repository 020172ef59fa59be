package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reldir/internal/ir"
)

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		input string
		want  ir.RelationshipDefinition
	}{
		{"(Person, ACTED_IN, Movie)", ir.RelationshipDefinition{Source: "Person", Type: "ACTED_IN", Target: "Movie"}},
		{"  ( Person ,ACTED_IN,Movie )  ", ir.RelationshipDefinition{Source: "Person", Type: "ACTED_IN", Target: "Movie"}},
		{"Person, ACTED_IN, Movie", ir.RelationshipDefinition{Source: "Person", Type: "ACTED_IN", Target: "Movie"}},
		{"(`Movie Star`, `ACTED, IN`, Movie)", ir.RelationshipDefinition{Source: "Movie Star", Type: "ACTED, IN", Target: "Movie"}},
		{"(`A``B`, R, C)", ir.RelationshipDefinition{Source: "A`B", Type: "R", Target: "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDefinition(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDefinition_Errors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"", "expected 3"},
		{"(Person, ACTED_IN)", "expected 3"},
		{"(Person, ACTED_IN, Movie, Extra)", "expected 3"},
		{"(Person, , Movie)", "type is empty"},
		{"(Person, ACTED_IN, Movie", "missing closing"},
		{"Person, ACTED_IN, Movie)", "missing opening"},
		{"(`Person, ACTED_IN, Movie)", "unterminated"},
		{"(`Person`x, ACTED_IN, Movie)", "after quoted name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseDefinition(tt.input)
			require.Error(t, err)

			var defErr *DefinitionError
			require.True(t, errors.As(err, &defErr))
			assert.Equal(t, tt.input, defErr.Input)
			assert.Contains(t, defErr.Message, tt.message)
		})
	}
}

func TestParseDefinitionList(t *testing.T) {
	defs, err := ParseDefinitionList("(Person, ACTED_IN, Movie),(Person, REVIEWED, Movie), (Person,FOLLOWS,Person)")
	require.NoError(t, err)

	assert.Equal(t, []ir.RelationshipDefinition{
		{Source: "Person", Type: "ACTED_IN", Target: "Movie"},
		{Source: "Person", Type: "REVIEWED", Target: "Movie"},
		{Source: "Person", Type: "FOLLOWS", Target: "Person"},
	}, defs)
}

func TestParseDefinitionList_ErrorStopsParsing(t *testing.T) {
	defs, err := ParseDefinitionList("(Person, ACTED_IN, Movie),(Person, REVIEWED)")
	assert.Nil(t, defs)

	var defErr *DefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "(Person, REVIEWED)", defErr.Input)
}

func TestSplitDefinitionList(t *testing.T) {
	assert.Equal(t, []string{"(A, R, B)", "(C, S, D)"}, SplitDefinitionList("(A, R, B),(C, S, D)"))
	assert.Equal(t, []string{"(`x),y`, R, B)"}, SplitDefinitionList("(`x),y`, R, B)"))
	assert.Empty(t, SplitDefinitionList("   "))
}
