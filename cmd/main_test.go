package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/okian/ott/internal/adapters/repository"
	app "github.com/okian/ott/internal/app"
	"github.com/okian/ott/internal/config"
	"github.com/okian/ott/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestDatabaseConfig(t *testing.T) {
	convey.Convey("Given configuration loaded from the environment", t, func() {
		_ = os.Setenv("OTT_DB_HOST", "mysql.internal")
		_ = os.Setenv("OTT_DB_PORT", "3307")
		_ = os.Setenv("OTT_DB_PASSWORD", "s3cret")
		defer func() {
			_ = os.Unsetenv("OTT_DB_HOST")
			_ = os.Unsetenv("OTT_DB_PORT")
			_ = os.Unsetenv("OTT_DB_PASSWORD")
		}()

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the driver configuration mirrors it", func() {
			dbCfg := databaseConfig(cfg)
			convey.So(dbCfg.Net, convey.ShouldEqual, "tcp")
			convey.So(dbCfg.Addr, convey.ShouldEqual, "mysql.internal:3307")
			convey.So(dbCfg.User, convey.ShouldEqual, "root")
			convey.So(dbCfg.Passwd, convey.ShouldEqual, "s3cret")
			convey.So(dbCfg.DBName, convey.ShouldEqual, "ott")
			convey.So(dbCfg.ParseTime, convey.ShouldBeTrue)
			convey.So(dbCfg.Timeout, convey.ShouldEqual, 5*time.Second)
			convey.So(dbCfg.FormatDSN(), convey.ShouldContainSubstring, "parseTime=true")
		})
	})
}

func TestRouterWiring(t *testing.T) {
	convey.Convey("Given the full router over a mocked database", t, func() {
		ctx := context.Background()
		db, mock, err := sqlmock.New()
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(
			app.WithDatabase(repository.NewWithDB(db)),
			app.WithLogger(logger.Nop()),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() {
			mock.ExpectClose()
			svc.Stop()
		}()

		router, err := newRouter(ctx, svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		serve := func(method, path, body string) *httptest.ResponseRecorder {
			var req *http.Request
			if body == "" {
				req = httptest.NewRequest(method, path, http.NoBody)
			} else {
				req = httptest.NewRequest(method, path, strings.NewReader(body))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then genres flow from the database to JSON", func() {
			mock.ExpectQuery(regexp.QuoteMeta(repository.QueryGenres)).
				WillReturnRows(sqlmock.NewRows([]string{"Genre_Id", "Name"}).
					AddRow(int64(2), "Comedy").
					AddRow(int64(1), "Drama"))

			w := serve(http.MethodGet, "/api/genres", "")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			var rows []map[string]any
			convey.So(json.Unmarshal(w.Body.Bytes(), &rows), convey.ShouldBeNil)
			convey.So(rows, convey.ShouldHaveLength, 2)
			convey.So(rows[0]["Name"], convey.ShouldEqual, "Comedy")
			convey.So(mock.ExpectationsWereMet(), convey.ShouldBeNil)
		})

		convey.Convey("Then adding to a watchlist calls the procedure", func() {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("CALL sp_add_to_watchlist(?, ?)")).
				WithArgs(int64(7), int64(42)).
				WillReturnRows(sqlmock.NewRows([]string{"Watchlist_Id"}))
			mock.ExpectCommit()

			w := serve(http.MethodPost, "/api/watchlist/add", `{"profile_id":7,"content_id":42}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Added to watchlist")
			convey.So(mock.ExpectationsWereMet(), convey.ShouldBeNil)
		})

		convey.Convey("Then the pages, docs and operational routes are served", func() {
			convey.So(serve(http.MethodGet, "/", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/analytics", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/stats", "").Body.String(), convey.ShouldContainSubstring, `"started":true`)
			convey.So(serve(http.MethodGet, "/metrics", "").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("OTT_ADDR", "")
			defer func() { _ = os.Unsetenv("OTT_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
