package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PostViews = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blog_post_views_total",
		Help: "Count of successful published post reads",
	})
	PostsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_posts_created_total", Help: "Count of created posts"},
		[]string{"status"},
	)
	CommentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blog_comments_created_total",
		Help: "Count of accepted comments",
	})
)

func init() { prometheus.MustRegister(PostViews, PostsCreated, CommentsCreated) }
