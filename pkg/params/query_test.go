package params_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/params"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func TestQuery_TypedDefault(t *testing.T) {
	t.Parallel()

	q := params.MustQuery("page", params.Int, validator.Default(1), validator.Ge(1))

	got, err := params.As[int](q.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = params.As[int](q.FromRequest(httptest.NewRequest(http.MethodGet, "/?page=3", nil)))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = q.FromRequest(httptest.NewRequest(http.MethodGet, "/?page=0", nil))
	requireHTTPError(t, err, http.StatusBadRequest, "Value must be greater than or equal to 1")

	_, err = q.FromRequest(httptest.NewRequest(http.MethodGet, "/?page=two", nil))
	requireHTTPError(t, err, http.StatusBadRequest, "Value 'two' is not a valid integer.")
}

func TestQuery_Predicates(t *testing.T) {
	t.Parallel()

	even := func(v any) (bool, error) {
		if v.(int)%2 != 0 {
			return false, validator.Reject("Value must be even.", 0)
		}
		return true, nil
	}
	small := func(v any) (bool, error) {
		if v.(int) > 100 {
			return false, errors.New("too big")
		}
		return true, nil
	}

	q := params.MustQuery("n", params.Int,
		validator.WithPredicate(even),
		validator.WithPredicate(small),
	)

	_, err := q.Check(context.Background(), "3", true)
	requireHTTPError(t, err, http.StatusBadRequest, "Value must be even.")

	_, err = q.Check(context.Background(), "102", true)
	requireHTTPError(t, err, http.StatusBadRequest, "Custom validation error: too big")

	got, err := q.Check(context.Background(), "8", true)
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	withOverride := params.MustQuery("n", params.Int,
		validator.WithPredicate(small),
		validator.WithMessages(validator.Messages{Custom: validator.Literal("Number rejected")}),
	)
	_, err = withOverride.Check(context.Background(), "500", true)
	requireHTTPError(t, err, http.StatusBadRequest, "Number rejected: too big")
}

func TestQuery_AllowedBeforePredicates(t *testing.T) {
	t.Parallel()

	called := false
	q := params.MustQuery("sort", params.String,
		validator.AllowedValues("asc", "desc"),
		validator.WithPredicate(func(any) (bool, error) {
			called = true
			return true, nil
		}),
	)
	_, err := q.Check(context.Background(), "up", true)
	requireHTTPError(t, err, http.StatusBadRequest, "Value 'up' is not allowed. Allowed values are: asc, desc")
	assert.False(t, called)
}

func TestQuery_ValidateAll(t *testing.T) {
	t.Parallel()

	q := params.MustQuery("tag", params.String, validator.Format("alphanumeric"), validator.Required(false))

	got, err := q.ValidateAll(httptest.NewRequest(http.MethodGet, "/?tag=go&tag=web", nil))
	require.NoError(t, err)
	assert.Equal(t, []any{"go", "web"}, got)

	_, err = q.ValidateAll(httptest.NewRequest(http.MethodGet, "/?tag=go&tag=c%2B%2B", nil))
	requireHTTPError(t, err, http.StatusBadRequest, "Value does not match the required format: 'alphanumeric'")

	got, err = q.ValidateAll(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuery_BoolAndFloat(t *testing.T) {
	t.Parallel()

	flag := params.MustQuery("expand", params.Bool, validator.Default(false))
	got, err := params.As[bool](flag.Check(context.Background(), "yes", true))
	require.NoError(t, err)
	assert.True(t, got)

	_, err = flag.Check(context.Background(), "maybe", true)
	requireHTTPError(t, err, http.StatusBadRequest, "Value 'maybe' is not a valid boolean.")

	ratio := params.MustQuery("ratio", params.Float, validator.Gt(0), validator.Le(1))
	f, err := params.As[float64](ratio.Check(context.Background(), "0.5", true))
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)
}

func TestQuery_SharedAcrossGoroutines(t *testing.T) {
	t.Parallel()

	q := params.MustQuery("limit", params.Int, validator.Ge(1), validator.Le(50))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r := httptest.NewRequest(http.MethodGet, "/?limit="+itoa(n+1), nil)
			got, err := params.As[int](q.FromRequest(r))
			assert.NoError(t, err)
			assert.Equal(t, n+1, got)
		}(i)
	}
	wg.Wait()
}

func TestAs_TypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := params.As[int]("x", nil)
	requireHTTPError(t, err, http.StatusInternalServerError, "")
}

type queryCtxKey struct{}

type ctxRecorder struct {
	mu  sync.Mutex
	got []any
}

func (o *ctxRecorder) ObserveFailure(ctx context.Context, _, _ string, _ *validator.Failure) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, ctx.Value(queryCtxKey{}))
}

func TestCheck_ReportsWithCallerContext(t *testing.T) {
	t.Parallel()

	obs := &ctxRecorder{}
	ctx := context.WithValue(context.Background(), queryCtxKey{}, "trace-7")

	q := params.MustQuery("limit", params.Int, validator.Ge(1), validator.WithObserver(obs))
	_, err := q.Check(ctx, "0", true)
	require.Error(t, err)

	h := params.MustHeader("X-Tenant", validator.Required(true), validator.WithObserver(obs))
	_, err = h.Check(ctx, "", false)
	require.Error(t, err)

	p := params.MustPath("id", params.Int, validator.WithObserver(obs))
	_, err = p.Check(ctx, "abc")
	require.Error(t, err)

	assert.Equal(t, []any{"trace-7", "trace-7", "trace-7"}, obs.got)
}
