// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package export

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/poiesic/graphit/core"
)

// D3Node represents a node in a D3 force-directed graph.
type D3Node struct {
	Id         string            `json:"id"`
	Name       string            `json:"name"`
	Group      string            `json:"group,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// D3Link represents a link/edge in a D3 force-directed graph.
type D3Link struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Relation string  `json:"relation"`
	Weight   float64 `json:"weight,omitempty"`
}

// D3Graph is the full structure D3.js consumes.
type D3Graph struct {
	Nodes []D3Node `json:"nodes"`
	Links []D3Link `json:"links"`
}

// FromGraphData converts a visualization extract into D3 format. Nodes are
// grouped by their entity label; edge weight is taken from a "confidence"
// property when present, defaulting to 1.
func FromGraphData(data *core.GraphData) *D3Graph {
	graph := &D3Graph{
		Nodes: make([]D3Node, 0, len(data.Nodes)),
		Links: make([]D3Link, 0, len(data.Edges)),
	}

	for _, node := range data.Nodes {
		graph.Nodes = append(graph.Nodes, D3Node{
			Id:         node.Id,
			Name:       node.Name,
			Group:      node.Label,
			Properties: node.Properties,
		})
	}

	for _, edge := range data.Edges {
		weight := 1.0
		if raw, ok := edge.Properties["confidence"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				weight = parsed
			}
		}

		graph.Links = append(graph.Links, D3Link{
			Source:   edge.From,
			Target:   edge.To,
			Relation: edge.Type,
			Weight:   weight,
		})
	}

	return graph
}

// WriteFile writes the graph to a JSON file, indented for readability.
func (g *D3Graph) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(g)
}
