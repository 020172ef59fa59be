package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personActedInMovie() (*Chain, *RelationshipPattern) {
	rel := &RelationshipPattern{Types: TypeSet{"ACTED_IN"}, Direction: RightToLeft}
	chain := NewChain(&NodePattern{Variable: "n", Labels: LabelSet{"Person"}})
	chain.Extend(rel, &NodePattern{Variable: "m", Labels: LabelSet{"Movie"}})
	return chain, rel
}

func TestChainExtend_WiresEndpoints(t *testing.T) {
	chain, rel := personActedInMovie()

	require.Len(t, chain.Elements, 3)
	assert.Same(t, chain.Elements[0], rel.Left)
	assert.Same(t, chain.Elements[2], rel.Right)
	assert.Equal(t, "m", chain.Last().Variable)
	assert.Len(t, chain.Nodes(), 2)
	assert.Len(t, chain.Relationships(), 1)
}

func TestRelationshipString(t *testing.T) {
	_, rel := personActedInMovie()
	assert.Equal(t, "(n:Person)<-[:ACTED_IN]-(m:Movie)", rel.String())

	rel.Direction = LeftToRight
	rel.Length = "*1..2"
	assert.Equal(t, "(n:Person)-[:ACTED_IN*1..2]->(m:Movie)", rel.String())
}

func TestStatementWalk_DescendsIntoSubqueries(t *testing.T) {
	outer, outerRel := personActedInMovie()
	inner, innerRel := personActedInMovie()

	stmt := &Statement{Clauses: []*Clause{
		{Keyword: "MATCH", Body: []Fragment{outer}},
		{Keyword: "CALL", Body: []Fragment{&Subquery{Clauses: []*Clause{
			{Keyword: "MATCH", Body: []Fragment{inner}},
		}}}},
		{Keyword: "RETURN", Body: []Fragment{&Opaque{Tokens: []Token{{Text: "n"}}}}},
	}}

	rels := stmt.Relationships()
	require.Len(t, rels, 2)
	assert.Same(t, outerRel, rels[0])
	assert.Same(t, innerRel, rels[1])
}

func TestValidate(t *testing.T) {
	chain, _ := personActedInMovie()
	ok := &Statement{Clauses: []*Clause{{Keyword: "MATCH", Body: []Fragment{chain}}}}

	result := Validate(ok)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Problems)
}

func TestValidate_DetectsBrokenStructure(t *testing.T) {
	tests := []struct {
		name    string
		stmt    *Statement
		problem string
	}{
		{
			name:    "nil statement",
			stmt:    nil,
			problem: "nil statement",
		},
		{
			name:    "missing keyword",
			stmt:    &Statement{Clauses: []*Clause{{Body: nil}}},
			problem: "no keyword",
		},
		{
			name: "dangling relationship",
			stmt: &Statement{Clauses: []*Clause{{Keyword: "MATCH", Body: []Fragment{
				&Chain{Elements: []PathElement{&NodePattern{}, &RelationshipPattern{}}},
			}}}},
			problem: "does not end on a node",
		},
		{
			name: "unwired relationship",
			stmt: &Statement{Clauses: []*Clause{{Keyword: "MATCH", Body: []Fragment{
				&Chain{Elements: []PathElement{&NodePattern{}, &RelationshipPattern{}, &NodePattern{}}},
			}}}},
			problem: "not wired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.stmt)
			require.False(t, result.Valid)
			require.NotEmpty(t, result.Problems)
			assert.Contains(t, result.Problems[0], tt.problem)
		})
	}
}
