package usersvc

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

var exporter = tracetest.NewInMemoryExporter()

func TestMain(m *testing.M) {
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T, users ...*User) *UserService {
	t.Helper()
	exporter.Reset()
	return NewUserService(NewStore(users...), &AuditLog{})
}

func spans(t *testing.T) tracetest.SpanStubs {
	t.Helper()
	return exporter.GetSpans()
}

func onlySpan(t *testing.T, name string) tracetest.SpanStub {
	t.Helper()

	var found []tracetest.SpanStub
	for _, s := range exporter.GetSpans() {
		if s.Name == name {
			found = append(found, s)
		}
	}
	require.Len(t, found, 1, "spans named %s", name)
	return found[0]
}

func attrs(s tracetest.SpanStub) map[attribute.Key]string {
	res := map[attribute.Key]string{}
	for _, kv := range s.Attributes {
		res[kv.Key] = kv.Value.AsString()
	}
	return res
}

func exceptions(s tracetest.SpanStub) int {
	var n int
	for _, e := range s.Events {
		if e.Name == "exception" {
			n++
		}
	}
	return n
}

func TestGetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := newService(t, &User{ID: "1", Name: "alice"})

		u, err := svc.GetUser(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Name)

		span := onlySpan(t, "spanweave.UserService.GetUser")
		assert.Equal(t, codes.Ok, span.Status.Code)
		assert.Equal(t, 0, exceptions(span))
		assert.Equal(t, map[attribute.Key]string{
			"code.namespace":            "UserService",
			"code.function":             "GetUser",
			"spanweave.library.name":    "spanweave",
			"spanweave.library.version": "0.1.0",
		}, attrs(span))
	})

	t.Run("not found", func(t *testing.T) {
		svc := newService(t)

		u, err := svc.GetUser(context.Background(), "1")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, u)

		span := onlySpan(t, "spanweave.UserService.GetUser")
		assert.Equal(t, codes.Error, span.Status.Code)
		assert.Equal(t, err.Error(), span.Status.Description)
		assert.Equal(t, 1, exceptions(span))
	})
}

func TestCreateUserPropagatesSpanContext(t *testing.T) {
	svc := newService(t)

	_, err := svc.CreateUser(context.Background(), "1", "alice")
	require.NoError(t, err)

	create := onlySpan(t, "spanweave.UserService.CreateUser")
	record := onlySpan(t, "spanweave.AuditLog.Record")
	assert.Equal(t, create.SpanContext.SpanID(), record.Parent.SpanID())
	assert.Equal(t, create.SpanContext.TraceID(), record.SpanContext.TraceID())
	assert.Equal(t, "AuditLog", attrs(record)["code.namespace"])
	assert.Equal(t, codes.Ok, record.Status.Code)
	assert.Equal(t, []string{"create 1"}, svc.audit.Entries())

	_, err = svc.CreateUser(context.Background(), "", "bob")
	require.Error(t, err)
}

func TestRenameKeepsNamedResults(t *testing.T) {
	svc := newService(t, &User{ID: "1", Name: "alice"})

	prev, err := svc.Rename(context.Background(), "1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", prev)
	assert.Equal(t, "bob", svc.MustGetUser("1").Name)

	exporter.Reset()
	_, err = svc.Rename(context.Background(), "2", "bob")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "rename: ")

	rename := onlySpan(t, "spanweave.UserService.Rename")
	get := onlySpan(t, "spanweave.UserService.GetUser")
	assert.Equal(t, codes.Error, rename.Status.Code)
	assert.Equal(t, err.Error(), rename.Status.Description)
	assert.Equal(t, rename.SpanContext.SpanID(), get.Parent.SpanID())
}

func TestMustGetUserPanics(t *testing.T) {
	svc := newService(t)

	var recovered any
	func() {
		defer func() {
			recovered = recover()
		}()
		svc.MustGetUser("1")
	}()

	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v", recovered)
	require.ErrorIs(t, err, ErrNotFound)

	span := onlySpan(t, "spanweave.UserService.MustGetUser")
	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Equal(t, err.Error(), span.Status.Description)
	assert.Equal(t, 1, exceptions(span))
	assert.False(t, span.EndTime.IsZero())
}

func TestCount(t *testing.T) {
	svc := newService(t, &User{ID: "1"}, &User{ID: "2"})

	assert.Equal(t, 2, svc.Count())
	assert.Equal(t, codes.Ok, onlySpan(t, "spanweave.UserService.Count").Status.Code)
}

func TestExport(t *testing.T) {
	t.Run("relays every user", func(t *testing.T) {
		users := []*User{{ID: "1"}, {ID: "2"}, {ID: "3"}}
		svc := newService(t, users...)

		ch, err := svc.Export(context.Background())
		require.NoError(t, err)
		assert.Equal(t, len(users), cap(ch))

		var got []*User
		for u := range ch {
			got = append(got, u)
		}
		assert.Equal(t, users, got)

		span := onlySpan(t, "spanweave.UserService.Export")
		assert.Equal(t, codes.Ok, span.Status.Code)
	})

	t.Run("error ends the span", func(t *testing.T) {
		svc := newService(t)

		ch, err := svc.Export(context.Background())
		require.ErrorIs(t, err, ErrEmpty)
		assert.Nil(t, ch)

		span := onlySpan(t, "spanweave.UserService.Export")
		assert.Equal(t, codes.Error, span.Status.Code)
		assert.Equal(t, 1, exceptions(span))
	})
}

func TestProblems(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		svc := newService(t, &User{ID: "1", Name: "alice"})

		var n int
		for err := range svc.Problems() {
			assert.NoError(t, err)
			n++
		}
		assert.Equal(t, 1, n)
		assert.Equal(t, codes.Ok, onlySpan(t, "spanweave.UserService.Problems").Status.Code)
	})

	t.Run("problems recorded", func(t *testing.T) {
		svc := newService(t, &User{ID: "1", Name: "alice"}, &User{ID: "2"}, &User{ID: "3"})

		var errs []error
		for err := range svc.Problems() {
			errs = append(errs, err)
		}
		require.Len(t, errs, 3)
		assert.NoError(t, errs[0])
		assert.Error(t, errs[1])
		assert.Error(t, errs[2])

		span := onlySpan(t, "spanweave.UserService.Problems")
		assert.Equal(t, codes.Error, span.Status.Code)
		assert.Equal(t, 2, exceptions(span))
	})
}

func TestAll(t *testing.T) {
	users := []*User{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	t.Run("span starts on iteration", func(t *testing.T) {
		svc := newService(t, users...)

		seq := svc.All()
		assert.Empty(t, spans(t))

		assert.Equal(t, users, slices.Collect(seq))
		assert.Equal(t, codes.Ok, onlySpan(t, "spanweave.UserService.All").Status.Code)
	})

	t.Run("early stop", func(t *testing.T) {
		svc := newService(t, users...)

		for u := range svc.All() {
			assert.Equal(t, "1", u.ID)
			break
		}

		span := onlySpan(t, "spanweave.UserService.All")
		assert.Equal(t, codes.Unset, span.Status.Code)
		assert.False(t, span.EndTime.IsZero())
	})

	t.Run("panic in loop body", func(t *testing.T) {
		svc := newService(t, users...)

		assert.PanicsWithValue(t, "boom", func() {
			for range svc.All() {
				panic("boom")
			}
		})

		span := onlySpan(t, "spanweave.UserService.All")
		assert.Equal(t, codes.Error, span.Status.Code)
		assert.Equal(t, "panic: boom", span.Status.Description)
	})
}

func TestNames(t *testing.T) {
	svc := newService(t, &User{ID: "1", Name: "alice"}, &User{ID: "2", Name: "bob"})

	var got []string
	for id, name := range svc.Names(context.Background()) {
		got = append(got, id+"="+name)
	}
	assert.Equal(t, []string{"1=alice", "2=bob"}, got)

	names := onlySpan(t, "spanweave.UserService.Names")
	all := onlySpan(t, "spanweave.UserService.All")
	assert.Equal(t, codes.Ok, names.Status.Code)
	assert.Equal(t, codes.Ok, all.Status.Code)
}

func TestResolve(t *testing.T) {
	svc := newService(t, &User{ID: "1", Name: "alice"})

	var (
		found []string
		errs  []error
	)
	for u, err := range svc.Resolve(context.Background(), "1", "2", "3") {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found = append(found, u.Name)
	}
	assert.Equal(t, []string{"alice"}, found)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrNotFound))
	}

	span := onlySpan(t, "spanweave.UserService.Resolve")
	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Equal(t, 2, exceptions(span))
}

func TestUninstrumentedMethods(t *testing.T) {
	svc := newService(t, &User{ID: "1", Name: "alice"})

	require.NoError(t, svc.Ping())
	assert.Equal(t, "UserService(1 users)", svc.String())
	assert.Empty(t, spans(t))
}
