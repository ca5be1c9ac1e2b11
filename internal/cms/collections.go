package cms

// relation describes a link to another collection. Forward relations store
// the target's documentId in the field; reverse relations are computed from
// the target entries whose foreignKey points back at this entry.
type relation struct {
	target     string
	reverse    bool
	foreignKey string
}

type collection struct {
	name      string
	relations map[string]relation
	// media fields hold embedded media or components and, like relations,
	// are only returned when populated.
	media    []string
	private  []string
	required []string
	unique   []string
	defaults map[string]any
	// public lists the actions anonymous callers may perform besides reads.
	public map[string]bool
}

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

var collections = map[string]*collection{
	"blog-posts": {
		name: "blog-posts",
		relations: map[string]relation{
			"comments": {target: "comments", reverse: true, foreignKey: "blog_post"},
			"likes":    {target: "likes", reverse: true, foreignKey: "blog_post"},
		},
		media:    []string{"image"},
		required: []string{"title", "slug"},
		unique:   []string{"slug"},
		defaults: map[string]any{"draft": false},
	},
	"projects": {
		name:     "projects",
		media:    []string{"image", "gallery"},
		required: []string{"title", "slug"},
		unique:   []string{"slug"},
		defaults: map[string]any{"featured": false, "order": 0},
	},
	"podcasts": {
		name:     "podcasts",
		media:    []string{"coverImage"},
		required: []string{"title", "slug", "audioUrl"},
		unique:   []string{"slug"},
		defaults: map[string]any{"featured": false},
	},
	"comments": {
		name: "comments",
		relations: map[string]relation{
			"blog_post":     {target: "blog-posts"},
			"parentComment": {target: "comments"},
		},
		private:  []string{"authorEmail", "ipAddress"},
		required: []string{"content", "authorName", "authorEmail", "blog_post"},
		defaults: map[string]any{"approved": false},
		public:   map[string]bool{actionCreate: true},
	},
	"likes": {
		name: "likes",
		relations: map[string]relation{
			"blog_post": {target: "blog-posts"},
		},
		private:  []string{"ipAddress"},
		required: []string{"sessionId", "blog_post"},
		public:   map[string]bool{actionCreate: true, actionDelete: true},
	},
}

func (c *collection) isMedia(field string) bool {
	for _, m := range c.media {
		if m == field {
			return true
		}
	}
	return false
}

func (c *collection) isPrivate(field string) bool {
	for _, p := range c.private {
		if p == field {
			return true
		}
	}
	return false
}

// populatable returns every field a populate=* expands.
func (c *collection) populatable() []string {
	out := make([]string, 0, len(c.relations)+len(c.media))
	for name := range c.relations {
		out = append(out, name)
	}
	return append(out, c.media...)
}
