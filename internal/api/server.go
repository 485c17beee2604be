// Package api exposes the engine over a REST surface. It owns request
// parsing, routing, and response shaping only; every domain decision is
// delegated to the engine.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"conduit/internal/engine"
)

// Server routes HTTP requests to engine operations.
type Server struct {
	engine *engine.Engine
	auth   Authenticator
	log    *zap.Logger
}

// New creates a Server. A nil logger is replaced with a no-op logger.
func New(e *engine.Engine, auth Authenticator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{engine: e, auth: auth, log: log}
}

// Router builds the API route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(s.withUser)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.registerUser)
		})
		r.Route("/user", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.currentUser)
			r.Put("/", s.updateUser)
		})

		r.Route("/profiles/{username}", func(r chi.Router) {
			r.Get("/", s.getProfile)
			r.With(s.requireUser).Post("/follow", s.follow)
			r.With(s.requireUser).Delete("/follow", s.unfollow)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.listArticles)
			r.With(s.requireUser).Post("/", s.createArticle)
			r.With(s.requireUser).Get("/feed", s.feed)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", s.getArticle)
				r.With(s.requireUser).Put("/", s.updateArticle)
				r.With(s.requireUser).Delete("/", s.deleteArticle)
				r.With(s.requireUser).Post("/favorite", s.favorite)
				r.With(s.requireUser).Delete("/favorite", s.unfavorite)

				r.Route("/comments", func(r chi.Router) {
					r.Get("/", s.listComments)
					r.With(s.requireUser).Post("/", s.addComment)
					r.With(s.requireUser).Delete("/{commentID}", s.deleteComment)
				})
			})
		})

		r.Get("/tags", s.listTags)
	})

	return r
}

// render writes a renderer, logging render failures rather than surfacing
// them mid-response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		s.log.Error("render failed", zap.Error(err))
	}
}

func (s *Server) domainError(w http.ResponseWriter, r *http.Request, err error) {
	if engine.CodeOf(err) == "" {
		s.log.Error("request failed", zap.Error(err))
	}
	s.render(w, r, ErrDomain(err))
}

//--
// Users
//--

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	data := &UserRequest{}
	if err := render.Bind(r, data); err != nil {
		s.render(w, r, ErrInvalidRequest(err))
		return
	}

	u, err := s.engine.RegisterUser(r.Context(), data.input())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	s.render(w, r, UserResponse{User: u})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.engine.GetUser(r.Context(), userFrom(r))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, UserResponse{User: u})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	data := &UserRequest{}
	if err := render.Bind(r, data); err != nil {
		s.render(w, r, ErrInvalidRequest(err))
		return
	}

	u, err := s.engine.UpdateUser(r.Context(), userFrom(r), data.patch())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, UserResponse{User: u})
}

//--
// Profiles
//--

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.GetProfile(r.Context(), userFrom(r), chi.URLParam(r, "username"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ProfileResponse{Profile: p})
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.Follow(r.Context(), userFrom(r), chi.URLParam(r, "username"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ProfileResponse{Profile: p})
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.Unfollow(r.Context(), userFrom(r), chi.URLParam(r, "username"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ProfileResponse{Profile: p})
}

//--
// Articles
//--

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	data := &ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		s.render(w, r, ErrInvalidRequest(err))
		return
	}

	a, err := s.engine.CreateArticle(r.Context(), userFrom(r), data.input())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	s.render(w, r, ArticleResponse{Article: a})
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.GetArticle(r.Context(), userFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleResponse{Article: a})
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.engine.ListArticles(r.Context(), userFrom(r), engine.ListFilter{
		Tag:       q.Get("tag"),
		Author:    q.Get("author"),
		Favorited: q.Get("favorited"),
		Limit:     intParam(q.Get("limit")),
		Offset:    intParam(q.Get("offset")),
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleListResponse{Articles: list.Articles, ArticlesCount: list.Total})
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.engine.Feed(r.Context(), userFrom(r), engine.Page{
		Limit:  intParam(q.Get("limit")),
		Offset: intParam(q.Get("offset")),
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleListResponse{Articles: list.Articles, ArticlesCount: list.Total})
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	data := &ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		s.render(w, r, ErrInvalidRequest(err))
		return
	}

	a, err := s.engine.UpdateArticle(r.Context(), userFrom(r), chi.URLParam(r, "slug"), data.patch())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleResponse{Article: a})
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.DeleteArticle(r.Context(), userFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleResponse{Article: a})
}

func (s *Server) favorite(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.Favorite(r.Context(), userFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleResponse{Article: a})
}

func (s *Server) unfavorite(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.Unfavorite(r.Context(), userFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, ArticleResponse{Article: a})
}

//--
// Comments
//--

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	data := &CommentRequest{}
	if err := render.Bind(r, data); err != nil {
		s.render(w, r, ErrInvalidRequest(err))
		return
	}

	c, err := s.engine.AddComment(r.Context(), userFrom(r), chi.URLParam(r, "slug"), data.Comment.Body)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	s.render(w, r, CommentResponse{Comment: c})
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.engine.ListComments(r.Context(), userFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, CommentListResponse{Comments: comments})
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		s.render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := s.engine.DeleteComment(r.Context(), userFrom(r), chi.URLParam(r, "slug"), commentID); err != nil {
		s.domainError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

//--
// Tags
//--

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.engine.ListTags(r.Context())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.render(w, r, TagListResponse{Tags: tags})
}

// intParam parses a non-negative integer query parameter, 0 on absence or
// garbage.
func intParam(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
