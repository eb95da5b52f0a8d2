package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSubgraph(t *testing.T) {
	nodesBefore := testutil.CollectAndCount(SubgraphNodes)
	linksBefore := testutil.CollectAndCount(SubgraphLinks)

	ObserveSubgraph("metrics-test", 3, 2, 15*time.Millisecond)

	assert.Equal(t, nodesBefore+1, testutil.CollectAndCount(SubgraphNodes))
	assert.Equal(t, linksBefore+1, testutil.CollectAndCount(SubgraphLinks))
}

func TestStoreErrors(t *testing.T) {
	c := StoreErrors.WithLabelValues("metrics-test")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
