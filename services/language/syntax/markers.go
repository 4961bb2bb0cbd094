// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package syntax

// ContextType classifies a context clause by its introducing marker.
type ContextType string

const (
	Temporal    ContextType = "temp"
	Spatial     ContextType = "spat"
	Causal      ContextType = "caus"
	Conditional ContextType = "cond"
	Modal       ContextType = "modal"
	Evidential  ContextType = "evid"
)

// contextMarkers is the closed marker set with its taxonomy. Kept as
// data, not code, so the classification is testable exhaustively.
var contextMarkers = map[string]ContextType{
	// Temporal
	"when":   Temporal,
	"while":  Temporal,
	"after":  Temporal,
	"before": Temporal,
	"during": Temporal,
	"as":     Causal,

	// Spatial
	"where":   Spatial,
	"in":      Spatial,
	"on":      Spatial,
	"at":      Spatial,
	"near":    Spatial,
	"under":   Spatial,
	"over":    Spatial,
	"into":    Spatial,
	"onto":    Spatial,
	"between": Spatial,
	"within":  Spatial,
	"amongst": Spatial,

	// Causal
	"because":    Causal,
	"since":      Causal,
	"concerning": Causal,
	"regarding":  Causal,

	// Conditional
	"if":       Conditional,
	"unless":   Conditional,
	"provided": Conditional,

	// Modal
	"through": Modal,
	"beyond":  Modal,
	"without": Modal,
	"with":    Modal,
	"by":      Modal,
	"from":    Modal,
	"to":      Modal,
	"against": Modal,

	// Evidential
	"apparently": Evidential,
	"reportedly": Evidential,
}

// targetMarkers maps source context markers to their fixed Zyntalic
// equivalents. Markers outside this table get a freshly synthesized
// word keyed by the marker string.
var targetMarkers = map[string]string{
	"when":    "뛀쨮",
	"where":   "깟뼍",
	"because": "룏딲",
	"if":      "솻뷨",
	"while":   "뚧홧",
	"after":   "켓뚜",
	"before":  "쾏뫼",
	"in":      "홍뛸",
	"on":      "뷠콮",
	"at":      "멷뚺",
}

// commonVerbs is the closed verb list used to locate the main verb.
var commonVerbs = map[string]struct{}{}

func init() {
	for _, v := range []string{
		"am", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did",
		"say", "says", "said", "make", "makes", "made", "go", "goes", "went",
		"see", "sees", "saw", "know", "knows", "knew", "think", "thinks", "thought",
		"take", "takes", "took", "come", "comes", "came", "want", "wants", "wanted",
		"use", "uses", "used", "find", "finds", "found", "give", "gives", "gave",
		"tell", "tells", "told", "work", "works", "worked", "call", "calls", "called",
		"try", "tries", "tried", "ask", "asks", "asked", "need", "needs", "needed",
		"feel", "feels", "felt", "become", "becomes", "became", "leave", "leaves", "left",
		"put", "puts", "keep", "keeps", "kept", "let", "lets",
		"begin", "begins", "began", "seem", "seems", "help", "helps", "helped",
		"talk", "talks", "talked", "turn", "turns", "turned", "start", "starts", "started",
		"show", "shows", "showed", "play", "plays", "played", "move", "moves", "moved",
		"live", "lives", "lived", "believe", "believes", "believed",
		"bring", "brings", "brought", "write", "writes", "wrote",
		"sit", "sits", "sat", "stand", "stands", "stood",
	} {
		commonVerbs[v] = struct{}{}
	}
}

// IsContextMarker reports whether token (lowercased) is in the closed
// marker set.
func IsContextMarker(token string) bool {
	_, ok := contextMarkers[token]
	return ok
}

// ClassifyMarker returns the taxonomy class for a marker, defaulting to
// Modal for markers outside the table.
func ClassifyMarker(marker string) ContextType {
	if t, ok := contextMarkers[marker]; ok {
		return t
	}
	return Modal
}

// MarkerTarget returns the Zyntalic surface form for a marker and
// whether it came from the fixed table.
func MarkerTarget(marker string) (string, bool) {
	tgt, ok := targetMarkers[marker]
	return tgt, ok
}
