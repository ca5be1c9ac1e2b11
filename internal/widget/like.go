package widget

import (
	"context"
	"log"
	"sync"

	"github.com/aniekan-akpan/theblog/internal/model"
)

// LikeService is the part of the content service the like toggle needs.
type LikeService interface {
	FindLike(ctx context.Context, postID, sessionID string) *model.Like
	CreateLike(ctx context.Context, postID, sessionID string) bool
	DeleteLike(ctx context.Context, likeID, sessionID string) bool
}

type LikeState int

const (
	Unknown LikeState = iota
	NotLiked
	Liked
)

func (s LikeState) String() string {
	switch s {
	case NotLiked:
		return "not liked"
	case Liked:
		return "liked"
	}
	return "unknown"
}

// LikeView is a snapshot of a LikeButton.
type LikeView struct {
	State   LikeState
	Liked   bool
	Loading bool
	Count   int
}

// LikeButton toggles the current session's like on one post.
//
// The "already liked" check and the write are separate requests, so two
// sessions racing on the same post can both pass the check. The CMS rejects
// the second like for a session, which surfaces here as a failed toggle.
type LikeButton struct {
	svc       LikeService
	postID    string
	sessionID string
	log       *log.Logger
	life      *lifetime

	mu      sync.Mutex
	state   LikeState
	loading bool
	count   int
}

// NewLikeButton starts in the Unknown state showing count likes.
func NewLikeButton(svc LikeService, postID, sessionID string, count int, logger *log.Logger) *LikeButton {
	if logger == nil {
		logger = log.Default()
	}
	return &LikeButton{
		svc:       svc,
		postID:    postID,
		sessionID: sessionID,
		count:     count,
		log:       logger,
		life:      newLifetime(),
	}
}

// Mount looks up whether the session already liked the post. A failed
// lookup reads as not liked.
func (b *LikeButton) Mount(ctx context.Context) {
	if !b.life.alive() {
		return
	}
	ctx, cancel := b.life.bind(ctx)
	defer cancel()
	like := b.svc.FindLike(ctx, b.postID, b.sessionID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.life.alive() {
		return
	}
	if like != nil {
		b.state = Liked
	} else {
		b.state = NotLiked
	}
}

// Toggle likes or unlikes the post and reports whether the state changed.
// It does nothing while a previous toggle is still running.
func (b *LikeButton) Toggle(ctx context.Context) bool {
	b.mu.Lock()
	if b.loading || !b.life.alive() {
		b.mu.Unlock()
		return false
	}
	b.loading = true
	liked := b.state == Liked
	b.mu.Unlock()

	ctx, cancel := b.life.bind(ctx)
	defer cancel()

	var ok bool
	if liked {
		// The like id is not kept between toggles; look it up again.
		if like := b.svc.FindLike(ctx, b.postID, b.sessionID); like != nil {
			ok = b.svc.DeleteLike(ctx, like.ID, b.sessionID)
		}
	} else {
		ok = b.svc.CreateLike(ctx, b.postID, b.sessionID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.life.alive() {
		return false
	}
	b.loading = false
	if !ok {
		b.log.Printf("Error toggling like on post %s", b.postID)
		return false
	}
	if liked {
		b.state = NotLiked
		b.count--
	} else {
		b.state = Liked
		b.count++
	}
	return true
}

// Unmount cancels in-flight requests. The button is inert afterwards.
func (b *LikeButton) Unmount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.life.end()
}

func (b *LikeButton) State() LikeView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return LikeView{
		State:   b.state,
		Liked:   b.state == Liked,
		Loading: b.loading,
		Count:   b.count,
	}
}
