package glob

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileName(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{pattern: "create*", name: "createUser", want: true},
		{pattern: "create*", name: "createOrder", want: true},
		{pattern: "create*", name: "create", want: true},
		{pattern: "create*", name: "recreate", want: false},
		{pattern: "get?ser", name: "getUser", want: true},
		{pattern: "get?ser", name: "getUserData", want: false},
		{pattern: "get?ser", name: "getser", want: false},
		{pattern: "*Handler", name: "ServeHandler", want: true},
		{pattern: "*Handler", name: "Handlers", want: false},
		{pattern: "String", name: "String", want: true},
		{pattern: "String", name: "string", want: false},
		{pattern: "String", name: "ToString", want: false},
		{pattern: "Get[A]", name: "Get[A]", want: true},
		{pattern: "Get[A]", name: "GetA", want: false},
		{pattern: "{a,b}*", name: "{a,b}x", want: true},
		{pattern: "{a,b}*", name: "ax", want: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s~%s", tt.pattern, tt.name), func(t *testing.T) {
			p, err := CompileName(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Match(tt.name))
		})
	}
}

func TestCompilePath(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "**/*service.go", path: "src/user.service.go", want: true},
		{pattern: "**/*service.go", path: "user.service.go", want: true},
		{pattern: "**/*service.go", path: "a/b/c/order_service.go", want: true},
		{pattern: "**/*service.go", path: "src/user.service.test.go", want: false},
		{pattern: "**/*.go", path: "a/b.go", want: true},
		{pattern: "**/*.go", path: "b.go", want: true},
		{pattern: "src/*.go", path: "src/a.go", want: true},
		{pattern: "src/*.go", path: "src/sub/a.go", want: false},
		{pattern: "src/**/*.go", path: "src/sub/deeper/a.go", want: true},
		{pattern: "src/**/*.go", path: "src/a.go", want: true},
		{pattern: "**/*_test.go", path: `pkg\user\service_test.go`, want: true},
		{pattern: `pkg\**\*.go`, path: "pkg/user/service.go", want: true},
		{pattern: "./cmd/*.go", path: "cmd/main.go", want: true},
		{pattern: "**/*Service.go", path: "TestController.go", want: false},
		{pattern: "**/*Service.go", path: "UserService.go", want: true},
		{pattern: "main.go", path: "main.go", want: true},
		{pattern: "main.go", path: "cmd/main.go", want: false},
		{pattern: "**/[a]*.go", path: "x/[a]b.go", want: true},
		{pattern: "**/[a]*.go", path: "x/ab.go", want: false},
		{pattern: "src/**.go", path: "src/a/b.go", want: true},
		{pattern: "src/**.go", path: "src/a.go", want: true},
		{pattern: "src/**.go", path: "lib/a.go", want: false},
		{pattern: "src/**.go", path: "src/a.txt", want: false},
		{pattern: "**service.ts", path: "src/user.service.ts", want: true},
		{pattern: "**service.ts", path: "user.service.ts", want: true},
		{pattern: "**service.ts", path: "src/user.service.test.ts", want: false},
		{pattern: "cmd**", path: "cmd/tool/main.go", want: true},
		{pattern: "cmd**", path: "cmdline.go", want: true},
		{pattern: "cmd**", path: "command.go", want: false},
		{pattern: "a**b/*.go", path: "a/x/yb/c.go", want: true},
		{pattern: "a**b/*.go", path: "ab/c.go", want: true},
		{pattern: "a**b/*.go", path: "a/x/y/c.go", want: false},
		{pattern: "**/**.go", path: "a/b/c.go", want: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s~%s", tt.pattern, tt.path), func(t *testing.T) {
			p, err := CompilePath(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Match(tt.path))
		})
	}
}

func TestCompileEmpty(t *testing.T) {
	_, err := CompilePath("")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadPattern))

	_, err = CompileName("")
	require.ErrorIs(t, err, ErrBadPattern)
}

func TestPatternLiteral(t *testing.T) {
	require.True(t, MustCompileName("toString").Literal())
	require.False(t, MustCompileName("to*").Literal())
	require.Equal(t, KindPath, MustCompilePath("**/*.go").Kind())
	require.Equal(t, `a\b.go`, MustCompilePath(`a\b.go`).String())
}

func TestSetMatchAny(t *testing.T) {
	set := Set{MustCompileName("String"), MustCompileName("Marshal*")}
	require.True(t, set.MatchAny("String"))
	require.True(t, set.MatchAny("MarshalJSON"))
	require.False(t, set.MatchAny("Unmarshal"))
	require.False(t, Set(nil).MatchAny("String"))
	require.Equal(t, []string{"String", "Marshal*"}, set.Strings())
}

func TestCacheConcurrent(t *testing.T) {
	var (
		c  Cache
		wg sync.WaitGroup
	)

	patterns := []string{"**/*.go", "**/*_test.go", "cmd/**"}
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.Path(patterns[i%len(patterns)])
			if err != nil {
				t.Error(err)
				return
			}
			if p.Kind() != KindPath {
				t.Errorf("unexpected kind %s", p.Kind())
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, len(patterns), c.Len())

	a, err := c.Path("**/*.go")
	require.NoError(t, err)
	b, err := c.Path("**/*.go")
	require.NoError(t, err)
	require.Same(t, a, b)

	n, err := c.Name("**/*.go")
	require.NoError(t, err)
	require.NotSame(t, a, n)
}
