package store

import "go.mongodb.org/mongo-driver/bson"

// Aggregation pipelines are built by pure functions so their shape can be
// checked without a running database.

// vectorSearchPipeline builds the Atlas $vectorSearch pipeline: approximate
// nearest-neighbor over the embedding path, projecting text, source and the
// similarity score.
func vectorSearchPipeline(index, path string, queryVector []float64, numCandidates, limit int) []bson.D {
	return []bson.D{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "path", Value: path},
			{Key: "queryVector", Value: queryVector},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: limit},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "text", Value: 1},
			{Key: "source", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

// textSearchPipeline builds the Atlas $search pipeline: full-text relevance
// over the text path, projected the same way so both branches produce the
// same result shape.
func textSearchPipeline(index, path, query string, limit int) []bson.D {
	return []bson.D{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: path},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "text", Value: 1},
			{Key: "source", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
		}}},
		{{Key: "$limit", Value: limit}},
	}
}
