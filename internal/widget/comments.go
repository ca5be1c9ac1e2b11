package widget

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aniekan-akpan/theblog/internal/model"
)

const (
	SubmitSuccessMessage = "Comment submitted successfully! It will appear after moderation."
	SubmitErrorMessage   = "Failed to submit comment. Please try again."
	IncompleteMessage    = "Please fill in all required fields."

	// DefaultSuccessTimeout is how long the success banner stays up.
	DefaultSuccessTimeout = 5 * time.Second
)

var ErrIncomplete = errors.New("name, email and comment are required")

// CommentService is the part of the content service the comment section
// needs.
type CommentService interface {
	GetCommentsByPostID(ctx context.Context, postID string) []model.Comment
	CreateComment(ctx context.Context, in model.NewComment) *model.Comment
}

// Form holds what the reader typed. Website is the only optional field.
type Form struct {
	AuthorName    string
	AuthorEmail   string
	AuthorWebsite string
	Content       string
}

func (f Form) Validate() error {
	for _, v := range []string{f.AuthorName, f.AuthorEmail, f.Content} {
		if strings.TrimSpace(v) == "" {
			return ErrIncomplete
		}
	}
	return nil
}

// CommentView is a snapshot of a CommentSection.
type CommentView struct {
	PostID     string
	Comments   []model.Comment
	Loading    bool
	ShowForm   bool
	Submitting bool
	Form       Form
	ReplyTo    string
	Success    string
	Error      string
}

// CommentSection lists the approved comments of a post and submits new ones
// for moderation.
type CommentSection struct {
	svc  CommentService
	log  *log.Logger
	life *lifetime

	mu             sync.Mutex
	postID         string
	comments       []model.Comment
	loading        bool
	showForm       bool
	submitting     bool
	form           Form
	replyTo        string
	success        string
	errMsg         string
	successTimeout time.Duration
	clear          *time.Timer
}

func NewCommentSection(svc CommentService, postID string, logger *log.Logger) *CommentSection {
	if logger == nil {
		logger = log.Default()
	}
	return &CommentSection{
		svc:            svc,
		log:            logger,
		life:           newLifetime(),
		postID:         postID,
		comments:       []model.Comment{},
		loading:        true,
		successTimeout: DefaultSuccessTimeout,
	}
}

// SetSuccessTimeout changes how long the success banner is shown.
func (c *CommentSection) SetSuccessTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successTimeout = d
}

// Load fetches the approved comments of the current post.
func (c *CommentSection) Load(ctx context.Context) {
	c.mu.Lock()
	if !c.life.alive() {
		c.mu.Unlock()
		return
	}
	postID := c.postID
	c.loading = true
	c.mu.Unlock()

	ctx, cancel := c.life.bind(ctx)
	defer cancel()
	comments := c.svc.GetCommentsByPostID(ctx, postID)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Drop answers for a post that is no longer shown.
	if !c.life.alive() || c.postID != postID {
		return
	}
	c.comments = comments
	c.loading = false
}

// SetPost switches to another post, reloading only when the id changes.
func (c *CommentSection) SetPost(ctx context.Context, postID string) {
	c.mu.Lock()
	if c.postID == postID {
		c.mu.Unlock()
		return
	}
	c.postID = postID
	c.mu.Unlock()
	c.Load(ctx)
}

func (c *CommentSection) OpenForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.alive() {
		c.showForm = true
	}
}

// CancelForm hides the form. What was typed is kept for the next open.
func (c *CommentSection) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.alive() {
		c.showForm = false
		c.replyTo = ""
	}
}

func (c *CommentSection) SetForm(f Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.alive() {
		c.form = f
	}
}

// ReplyTo opens the form for a reply to the comment with the given id.
func (c *CommentSection) ReplyTo(commentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.alive() {
		c.replyTo = commentID
		c.showForm = true
	}
}

// Submit sends the form for moderation and reports whether it was accepted.
// On failure the form stays open with its values so the reader can retry.
func (c *CommentSection) Submit(ctx context.Context) bool {
	c.mu.Lock()
	if c.submitting || !c.life.alive() {
		c.mu.Unlock()
		return false
	}
	c.stopClear()
	c.success, c.errMsg = "", ""
	if err := c.form.Validate(); err != nil {
		c.errMsg = IncompleteMessage
		c.mu.Unlock()
		return false
	}
	c.submitting = true
	in := model.NewComment{
		Content:         c.form.Content,
		AuthorName:      c.form.AuthorName,
		AuthorEmail:     c.form.AuthorEmail,
		AuthorWebsite:   c.form.AuthorWebsite,
		BlogPostID:      c.postID,
		ParentCommentID: c.replyTo,
	}
	c.mu.Unlock()

	ctx, cancel := c.life.bind(ctx)
	defer cancel()
	created := c.svc.CreateComment(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.life.alive() {
		return false
	}
	c.submitting = false
	if created == nil {
		c.log.Printf("Error submitting comment on post %s", in.BlogPostID)
		c.errMsg = SubmitErrorMessage
		return false
	}
	c.success = SubmitSuccessMessage
	c.form = Form{}
	c.replyTo = ""
	c.showForm = false
	c.clear = time.AfterFunc(c.successTimeout, c.clearSuccess)
	return true
}

func (c *CommentSection) clearSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.alive() {
		c.success = ""
	}
}

// stopClear cancels a pending banner clear. c.mu must be held.
func (c *CommentSection) stopClear() {
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
}

// Unmount stops the banner timer and cancels in-flight requests.
func (c *CommentSection) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopClear()
	c.life.end()
}

func (c *CommentSection) View() CommentView {
	c.mu.Lock()
	defer c.mu.Unlock()
	comments := make([]model.Comment, len(c.comments))
	copy(comments, c.comments)
	return CommentView{
		PostID:     c.postID,
		Comments:   comments,
		Loading:    c.loading,
		ShowForm:   c.showForm,
		Submitting: c.submitting,
		Form:       c.form,
		ReplyTo:    c.replyTo,
		Success:    c.success,
		Error:      c.errMsg,
	}
}
