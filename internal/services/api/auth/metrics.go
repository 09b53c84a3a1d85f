package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
)

var (
	signups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_signups_total",
		Help: "Users registered.",
	})
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refreshes_total",
		Help: "Access token renewals by outcome.",
	}, []string{"outcome"})
	logouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_logouts_total",
		Help: "Refresh tokens deleted through logout.",
	})
	bearerRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_bearer_rejected_total",
		Help: "Requests to protected routes rejected by the middleware.",
	}, []string{"reason"})
)
