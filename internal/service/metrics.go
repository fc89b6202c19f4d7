package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// uploadValidations counts upload verdicts by result ("ok" or a rejection kind).
	uploadValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receiptguard_upload_validations_total",
			Help: "Upload content validations by result",
		},
		[]string{"result"},
	)

	// historyPurged counts password history entries removed by retention purges.
	historyPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receiptguard_password_history_purged_total",
			Help: "Password history entries removed by retention purges",
		},
	)

	// passwordReuseRejections counts password changes refused for reuse.
	passwordReuseRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receiptguard_password_reuse_rejections_total",
			Help: "Password changes rejected because the password was used recently",
		},
	)
)
