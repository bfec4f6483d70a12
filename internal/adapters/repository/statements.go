package repository

// Stored procedures installed in the OTT schema.
const (
	ProcRenewSubscription   = "sp_renew_subscription"
	ProcUserSubscription    = "sp_get_user_subscription"
	ProcUserWatchSummary    = "sp_user_watch_summary"
	ProcRecordWatchProgress = "sp_record_watch_progress"
	ProcContentDetails      = "sp_get_content_details"
	ProcTopRatedContent     = "sp_get_top_rated_content"
	ProcPopularContent      = "sp_get_popular_content"
	ProcContentByGenre      = "sp_get_content_by_genre"
	ProcSearchContent       = "sp_search_content"
	ProcProfileWatchlist    = "sp_get_profile_watchlist"
	ProcAddToWatchlist      = "sp_add_to_watchlist"
	ProcRemoveFromWatchlist = "sp_remove_from_watchlist"
	ProcUserRecommendations = "sp_get_user_recommendations"
	ProcAllUsersStatus      = "sp_get_all_users_status"
	ProcActorFilmography    = "sp_get_actor_filmography"
)

// Raw statements issued outside stored procedures.
const (
	QueryAllContent = "SELECT Content_Id, Title, Type, Release_Year, Language, Content_Rating, Total_Views " +
		"FROM content ORDER BY Content_Rating DESC, Total_Views DESC LIMIT 50"
	QueryGenres = "SELECT Genre_Id, Name FROM genre ORDER BY Name"

	QueryNextRatingID = "SELECT COALESCE(MAX(Ratings_Id), 0) + 1 AS next_id FROM ratings FOR UPDATE"
	StmtInsertRating  = "INSERT INTO ratings (Ratings_Id, Profile_Id, Content_Id, Rating, Review_Text) VALUES (?, ?, ?, ?, ?)"
)

// Metric labels for database calls.
const (
	opProcedure = "procedure"
	opQuery     = "query"
	opRating    = "add_rating"

	nameAdhoc = "adhoc"
)

// errDeadlock is ER_LOCK_DEADLOCK.
const errDeadlock = 1213

// statementNames keeps the metric label set bounded for raw statements.
var statementNames = map[string]string{ //nolint:gochecknoglobals // static lookup table
	QueryAllContent:   "content_all",
	QueryGenres:       "genres",
	QueryNextRatingID: "ratings_next_id",
	StmtInsertRating:  "ratings_insert",
}

func statementName(query string) string {
	if name, ok := statementNames[query]; ok {
		return name
	}
	return nameAdhoc
}
