// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	for _, testCase := range newPlanTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			p, err := NewPlan(testCase.method, testCase.url, testCase.body)
			testCase.asserts(t, p, err)
			if p != nil {
				assert.Same(t, context.Background(), p.ctx)
				assert.Same(t, context.Background(), p.Context())
			}
		})
	}
}

func TestNewPlanWithContext(t *testing.T) {
	type foo struct{}
	ctx := context.WithValue(context.Background(), foo{}, "bar")
	require.NotSame(t, ctx, context.Background())
	for _, testCase := range newPlanTestCases {
		t.Run(testCase.name+" with special context", func(t *testing.T) {
			p, err := NewPlanWithContext(ctx, testCase.method, testCase.url, testCase.body)
			testCase.asserts(t, p, err)
			if p != nil {
				assert.Same(t, ctx, p.ctx)
				assert.Same(t, ctx, p.Context())
			}
		})
		t.Run(testCase.name+" with nil context", func(t *testing.T) {
			p, err := NewPlanWithContext(nil, testCase.method, testCase.url, testCase.body)
			assert.Nil(t, p)
			assert.EqualError(t, err, nilCtxMsg)
		})
	}
}

var newPlanTestCases = []struct {
	name    string
	method  string
	url     string
	body    interface{}
	asserts func(*testing.T, *Plan, error)
}{
	{
		name:   "empty method means GET",
		method: "",
		url:    "https://foo.com",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "GET", p.Method)
			assert.Equal(t, "https://foo.com", p.URL.String())
			assert.Nil(t, p.Body)
		},
	},
	{
		name:   "POST method",
		method: "POST",
		url:    "https://bar.com",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "POST", p.Method)
			assert.Equal(t, "https://bar.com", p.URL.String())
			assert.Nil(t, p.Body)
		},
	},
	{
		name:   "fake valid extension method",
		method: "Fake",
		url:    "http://baz.com",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "Fake", p.Method)
		},
	},
	{
		name:   "invalid method",
		method: "GE T",
		url:    "http://baz.com",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.EqualError(t, err, `stratx/request: invalid method "GE T"`)
		},
	},
	{
		name:   "remove empty port",
		method: "GET",
		url:    "http://ham:",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "ham", p.Host)
			assert.Equal(t, "ham", p.URL.Host)
			u, err := url.Parse("http://ham:")
			assert.NoError(t, err)
			assert.Equal(t, "ham:", u.Host,
				`If this assertion fails, you may be able to delete this
				 whole test case AND the removeEmptyPort function as it
				 probably indicates the URL parse is now stripping the
				 colon.`)
		},
	},
	{
		name: "body type string",
		url:  "str",
		body: "str",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, []byte("str"), p.Body)
		},
	},
	{
		name: "body type []byte",
		url:  "byte-slice",
		body: []byte{0x1, 0x2, 0x3},
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, []byte{0x1, 0x2, 0x3}, p.Body)
		},
	},
	{
		name: "body type unsupported",
		url:  "unsupported",
		body: 10,
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.EqualError(t, err, badBodyTypeMsg)
		},
	},
}

func TestPlan_Context(t *testing.T) {
	t.Run("zero value plan", func(t *testing.T) {
		p := &Plan{}
		assert.Same(t, context.Background(), p.Context())
	})
	t.Run("explicit context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p, err := NewPlanWithContext(ctx, "GET", "http://foo.com", nil)
		require.NoError(t, err)
		assert.Same(t, ctx, p.Context())
	})
}

func TestPlan_WithContext(t *testing.T) {
	p, err := NewPlan("PUT", "http://foo.com", "body")
	require.NoError(t, err)
	t.Run("nil context", func(t *testing.T) {
		assert.PanicsWithValue(t, nilCtxMsg, func() { p.WithContext(nil) })
	})
	t.Run("copies plan", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p2 := p.WithContext(ctx)
		require.NotSame(t, p, p2)
		assert.Same(t, ctx, p2.Context())
		assert.Same(t, context.Background(), p.Context())
		assert.Equal(t, p.Method, p2.Method)
		assert.Same(t, p.URL, p2.URL)
		assert.Equal(t, p.Body, p2.Body)
	})
}

func TestPlan_ToRequest(t *testing.T) {
	t.Run("without body", func(t *testing.T) {
		p, err := NewPlan("GET", "http://foo.com", nil)
		require.NoError(t, err)
		r := p.ToRequest(context.Background())
		require.NotNil(t, r)
		assert.Equal(t, "GET", r.Method)
		assert.Same(t, p.URL, r.URL)
		assert.Equal(t, p.Header, r.Header)
		assert.Nil(t, r.Body)
		assert.Equal(t, "foo.com", r.Host)
		assert.Same(t, context.Background(), r.Context())
	})
	t.Run("with body", func(t *testing.T) {
		p, err := NewPlan("POST", "http://bar.com", "eggs")
		require.NoError(t, err)
		r := p.ToRequest(context.Background())
		require.NotNil(t, r)
		assert.Equal(t, int64(4), r.ContentLength)
		require.NotNil(t, r.Body)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("eggs"), b)
		require.NotNil(t, r.GetBody)
		rc, err := r.GetBody()
		require.NoError(t, err)
		b, err = io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("eggs"), b)
	})
	t.Run("close and host", func(t *testing.T) {
		p, err := NewPlan("GET", "http://baz.com", nil)
		require.NoError(t, err)
		p.Close = true
		p.Host = "qux.com"
		r := p.ToRequest(context.Background())
		assert.True(t, r.Close)
		assert.Equal(t, "qux.com", r.Host)
	})
}

func TestValidMethod(t *testing.T) {
	valid := []string{"GET", "POST", "DELETE", "Fake", "x-y-z"}
	for _, method := range valid {
		assert.True(t, validMethod(method), "method %q", method)
	}
	invalid := []string{"GE T", "GET\n", "(GET)", "GET:"}
	for _, method := range invalid {
		assert.False(t, validMethod(method), "method %q", method)
	}
}

func TestRemoveEmptyPort(t *testing.T) {
	assert.Equal(t, "foo.com", removeEmptyPort("foo.com:"))
	assert.Equal(t, "foo.com:80", removeEmptyPort("foo.com:80"))
	assert.Equal(t, "foo.com", removeEmptyPort("foo.com"))
	assert.Equal(t, "[::1]", removeEmptyPort("[::1]:"))
}
