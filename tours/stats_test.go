package tours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTourStatsPipelineExcludesSecretTours(t *testing.T) {
	pipeline := tourStatsPipeline()
	require.NotEmpty(t, pipeline)

	match, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok, "first stage should be a $match")
	assert.Equal(t, "$match", pipeline[0][0].Key)

	assert.Equal(t, bson.M{"$ne": true}, match["secretTour"])
	assert.Equal(t, bson.M{"$gte": 4.5}, match["ratingsAverage"])
}
