package update

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/tcnksm/go-latest"
)

// fixedSource reports a fixed set of published versions.
type fixedSource struct {
	versions []string
	err      error
}

func (f *fixedSource) Validate() error { return nil }

func (f *fixedSource) Fetch() (*latest.FetchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := &latest.FetchResponse{}
	for _, v := range f.versions {
		parsed, err := version.NewVersion(v)
		if err != nil {
			return nil, err
		}
		res.Versions = append(res.Versions, parsed)
	}
	return res, nil
}

func TestSource(t *testing.T) {
	if _, err := Source("", "coursehost"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Source(no owner) = %v, want ErrNotConfigured", err)
	}
	src, err := Source("acme", "coursehost")
	if err != nil {
		t.Fatal(err)
	}
	if gh, ok := src.(*latest.GithubTag); !ok || gh.Owner != "acme" || gh.Repository != "coursehost" {
		t.Errorf("Source() = %#v", src)
	}
}

func TestCheck(t *testing.T) {
	t.Run("outdated", func(t *testing.T) {
		var buf bytes.Buffer
		Check(&buf, &fixedSource{versions: []string{"0.9.0", "1.2.0"}}, "acme", "coursehost", "1.0.0", false)
		out := buf.String()
		if !strings.Contains(out, "new version is available: 1.2.0") || !strings.Contains(out, "github.com/acme/coursehost/releases") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("current", func(t *testing.T) {
		var buf bytes.Buffer
		Check(&buf, &fixedSource{versions: []string{"1.0.0"}}, "acme", "coursehost", "1.0.0", true)
		if !strings.Contains(buf.String(), "latest version: 1.0.0") {
			t.Errorf("output = %q", buf.String())
		}
		buf.Reset()
		Check(&buf, &fixedSource{versions: []string{"1.0.0"}}, "acme", "coursehost", "1.0.0", false)
		if buf.Len() != 0 {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("network failure is silent", func(t *testing.T) {
		var buf bytes.Buffer
		Check(&buf, &fixedSource{err: errors.New("dial tcp: no route")}, "acme", "coursehost", "1.0.0", true)
		if buf.Len() != 0 {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
