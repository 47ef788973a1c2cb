package monitor

import (
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage mounts a minimal ops status page plus its JSON
// backend. Unauthenticated, read-only counters only.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(monitorHTML))
	})

	router.GET("/monitor/stats", func(c *gin.Context) {
		dbStatus := "ok"
		if sqlDB, err := config.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}

		var manuscripts, reviewers, queued, pending int64
		config.DB.Model(&models.Manuscript{}).Count(&manuscripts)
		config.DB.Model(&models.PotentialReviewer{}).Count(&reviewers)
		config.DB.Model(&models.InvitationQueueItem{}).Where("sent = ?", false).Count(&queued)
		config.DB.Model(&models.ReviewInvitation{}).
			Where("status = ?", models.InvitationStatusPending).Count(&pending)

		c.JSON(200, gin.H{
			"database":            dbStatus,
			"uptime_seconds":      int(time.Since(startedAt).Seconds()),
			"manuscripts":         manuscripts,
			"reviewers":           reviewers,
			"queued_reviewers":    queued,
			"pending_invitations": pending,
		})
	})
}

const monitorHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Review API Monitor</title>
  <style>
    body {
      background: #0f0f0f;
      color: #e0e0e0;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      padding: 2rem;
    }
    h1 { margin-bottom: 1.5rem; }
    .card {
      background: rgba(255, 255, 255, 0.05);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 12px;
      padding: 1rem 1.5rem;
      margin-bottom: 1rem;
      max-width: 480px;
      display: flex;
      justify-content: space-between;
    }
    .value { font-weight: 700; }
    .down { color: #e06060; }
  </style>
</head>
<body>
  <h1>Manuscript Review API</h1>
  <div id="cards"></div>
  <script>
    const labels = {
      database: 'Database',
      uptime_seconds: 'Uptime (s)',
      manuscripts: 'Manuscripts',
      reviewers: 'Reviewers',
      queued_reviewers: 'Queued reviewers',
      pending_invitations: 'Pending invitations'
    };
    async function refresh() {
      const res = await fetch('/monitor/stats');
      const stats = await res.json();
      const cards = Object.keys(labels).map(key => {
        const cls = key === 'database' && stats[key] !== 'ok' ? 'value down' : 'value';
        return '<div class="card"><span>' + labels[key] + '</span>' +
               '<span class="' + cls + '">' + stats[key] + '</span></div>';
      });
      document.getElementById('cards').innerHTML = cards.join('');
    }
    refresh();
    setInterval(refresh, 5000);
  </script>
</body>
</html>`
