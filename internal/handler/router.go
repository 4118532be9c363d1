package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Calendars    *CalendarHandler
	Terms        *TermHandler
	Days         *DayHandler
	Aggregations *AggregationHandler
}

// RegisterRoutes mounts the calendar API on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	group.POST("/calendars", h.Calendars.Create)

	calendar := group.Group("/calendars/:calendarId")
	calendar.GET("", h.Calendars.Get)
	calendar.PATCH("", h.Calendars.Update)

	calendar.GET("/terms", h.Terms.List)
	calendar.POST("/terms", h.Terms.Add)
	calendar.POST("/terms/bulk", h.Terms.BulkUpsert)
	calendar.POST("/terms/presets", h.Terms.UpsertPresets)
	calendar.PATCH("/terms/:termId", h.Terms.Update)
	calendar.DELETE("/terms/:termId", h.Terms.Delete)

	calendar.GET("/days", h.Aggregations.Days)
	calendar.PUT("/days", h.Days.UpsertRange)
	calendar.PUT("/days/:date", h.Days.Upsert)

	calendar.GET("/summary", h.Aggregations.TermSummary)
	calendar.GET("/summary/export", h.Aggregations.ExportSummary)
	calendar.GET("/unique-terms", h.Aggregations.UniqueTerms)
	calendar.GET("/weekday-dates", h.Aggregations.WeekdayDates)
}
