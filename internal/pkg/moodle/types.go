package moodle

import "fmt"

// Error is a web-service level fault reported by Moodle. The REST endpoint
// answers HTTP 200 for those; the fault lives in the JSON body.
type Error struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

func (e *Error) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("moodle: %s (%s)", e.Message, e.ErrorCode)
	}
	return fmt.Sprintf("moodle: %s", e.Message)
}

// Role is one enrolment role as exposed by the web service.
type Role struct {
	ID        uint   `json:"id"`
	ShortName string `json:"shortname"`
	Name      string `json:"name"`
}

type wsSiteInfo struct {
	SiteName string `json:"sitename"`
}

type wsUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type wsCourse struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullname"`
}

type wsCoursesResponse struct {
	Courses []wsCourse `json:"courses"`
}

type wsRolesResponse struct {
	Roles []Role `json:"roles"`
}
