package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationsAreCounted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	okBefore := testutil.ToFloat64(recordOps.WithLabelValues("create_user_record", "ok"))
	conflictBefore := testutil.ToFloat64(recordOps.WithLabelValues("create_user_record", "conflict"))
	notFoundBefore := testutil.ToFloat64(recordOps.WithLabelValues("get_user_record", "not_found"))

	require.NoError(t, svc.CreateUserRecord(ctx, "metrics-user"))
	_ = svc.CreateUserRecord(ctx, "metrics-user")
	_, _ = svc.GetUserRecord(ctx, "metrics-ghost")

	assert.Equal(t, okBefore+1, testutil.ToFloat64(recordOps.WithLabelValues("create_user_record", "ok")))
	assert.Equal(t, conflictBefore+1, testutil.ToFloat64(recordOps.WithLabelValues("create_user_record", "conflict")))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(recordOps.WithLabelValues("get_user_record", "not_found")))
}
