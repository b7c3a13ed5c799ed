package problems

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Problem struct {
	Type   string `json:"type" example:"validation_error"`
	Title  string `json:"title" example:"Validation error"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail,omitempty" example:"invalid range"`
}

func WriteProblem(c *gin.Context, p Problem) {
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(p.Status, p)
}

// AbortWithProblem writes p and stops the handler chain.
func AbortWithProblem(c *gin.Context, p Problem) {
	WriteProblem(c, p)
	c.Abort()
}

func Internal() Problem {
	return Problem{
		Type:   ProblemTypeInternal,
		Title:  TitleInternalError,
		Status: http.StatusInternalServerError,
		Detail: DetailInternalError,
	}
}

func Validation(detail string) Problem {
	return Problem{
		Type:   ProblemTypeValidation,
		Title:  TitleValidation,
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}
