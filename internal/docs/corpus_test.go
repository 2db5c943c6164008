package docs

import "testing"

const sampleCorpus = `[
  {"meta": {"title": "lib.strings.concat", "path": ["lib", "strings", "concat"], "count_applied": 0,
            "aliases": [["lib", "concat"]], "signature": "concat :: [String] -> String"},
   "content": {"content": "# Type\n\n` + "```" + `\nconcat :: [String] -> String\n` + "```" + `\n"}},
  {"meta": {"title": "lib.concat", "path": ["lib", "concat"], "count_applied": 1}},
  {"meta": {"title": "duplicate", "path": ["lib", "strings", "concat"]}},
  {"meta": {"title": "no path", "path": []}},
  {"meta": {"title": "builtins.add", "path": ["builtins", "add"], "is_primop": true,
            "primop_meta": {"name": "add", "args": ["e1", "e2"], "arity": 2, "experimental": false}}}
]`

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(sampleCorpus))
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 4 {
		t.Fatalf("expected 4 entries (pathless dropped), got %d", c.Len())
	}

	d, ok := c.Find([]string{"builtins", "add"})
	if !ok {
		t.Fatal("builtins.add not found")
	}
	if !d.Meta.IsPrimop || d.Meta.PrimopMeta == nil || d.Meta.PrimopMeta.Arity != 2 {
		t.Errorf("primop meta not decoded: %+v", d.Meta)
	}
	if d.Meta.CountApplied != nil {
		t.Errorf("absent count_applied must stay nil")
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	if _, err := Parse([]byte(`{"not": "an array"}`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestCorpus_Find(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(sampleCorpus))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("first_match_wins", func(t *testing.T) {
		d, ok := c.Find([]string{"lib", "strings", "concat"})
		if !ok {
			t.Fatal("not found")
		}
		if d.Meta.Title != "lib.strings.concat" {
			t.Errorf("got %q, want first entry", d.Meta.Title)
		}
	})

	t.Run("exact_only", func(t *testing.T) {
		for _, p := range [][]string{
			{"lib", "strings"},
			{"lib", "Strings", "concat"},
			{"lib", "strings", "concat", "x"},
			{},
		} {
			if _, ok := c.Find(p); ok {
				t.Errorf("unexpected match for %v", p)
			}
		}
	})

	t.Run("every_static_param_resolves", func(t *testing.T) {
		for _, p := range c.StaticParams() {
			d, ok := c.Find(p)
			if !ok {
				t.Fatalf("static param %v did not resolve", p)
			}
			if d.Key() != JoinPath(p) {
				t.Errorf("resolved %q for %q", d.Key(), JoinPath(p))
			}
		}
	})

	t.Run("nil_corpus", func(t *testing.T) {
		var empty *Corpus
		if _, ok := empty.Find([]string{"lib"}); ok {
			t.Error("nil corpus should not match")
		}
	})
}

func TestStaticParams_Copies(t *testing.T) {
	t.Parallel()
	c := NewCorpus([]Doc{{Meta: Meta{Path: []string{"lib", "id"}}}})
	params := c.StaticParams()
	params[0][0] = "mutated"
	if _, ok := c.Find([]string{"lib", "id"}); !ok {
		t.Error("mutating params changed the corpus")
	}
}

func TestHref(t *testing.T) {
	t.Parallel()
	if got := Href([]string{"lib", "foo"}); got != "/f/lib/foo" {
		t.Errorf("got %q", got)
	}
	if got := JoinPath([]string{"lib", "foo"}); got != "lib.foo" {
		t.Errorf("got %q", got)
	}
}
