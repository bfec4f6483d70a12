package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeRequest(t *testing.T) {
	Convey("Given a watch progress body", t, func() {
		decode := func(body string) (watchProgressRequest, error) {
			var req watchProgressRequest
			r := httptest.NewRequest(http.MethodPost, "/api/user/watch-progress", strings.NewReader(body))
			err := decodeRequest(httptest.NewRecorder(), r, &req)
			return req, err
		}

		Convey("A complete body decodes", func() {
			req, err := decode(`{"profile_id":3,"content_id":42,"progress":0}`)
			So(err, ShouldBeNil)
			So(*req.Progress, ShouldEqual, 0)
		})

		Convey("Malformed JSON is an invalid body", func() {
			_, err := decode(`{"profile_id":`)
			So(errors.Is(err, ErrInvalidBody), ShouldBeTrue)
			So(errors.Is(err, ErrBadRequest), ShouldBeFalse)
			So(err.Error(), ShouldStartWith, "api.decode_request: invalid JSON body")
		})

		Convey("A wrongly typed field is an invalid body", func() {
			_, err := decode(`{"profile_id":"three","content_id":42,"progress":1}`)
			So(errors.Is(err, ErrInvalidBody), ShouldBeTrue)
		})

		Convey("A missing field is a bad request", func() {
			_, err := decode(`{"profile_id":3,"content_id":42}`)
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, ErrInvalidBody), ShouldBeFalse)
		})
	})
}

func TestParsePathInt(t *testing.T) {
	Convey("Given integer route variables", t, func() {
		withVar := func(v string) *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/actor/"+v, http.NoBody)
			return mux.SetURLVars(r, map[string]string{"actor_id": v})
		}

		Convey("Digits parse", func() {
			id, err := parsePathInt(withVar("77"), "actor_id")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 77)
		})

		Convey("Overflow wraps ErrInvalidPath with the variable name", func() {
			_, err := parsePathInt(withVar("99999999999999999999"), "actor_id")
			So(errors.Is(err, ErrInvalidPath), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "actor_id")
		})
	})
}

func TestWrap(t *testing.T) {
	Convey("Wrap keeps the cause and prefixes the operation", t, func() {
		So(Wrap("api.op", nil), ShouldBeNil)
		err := Wrap("api.op", ErrBadRequest)
		So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "api.op: bad request")
	})
}
