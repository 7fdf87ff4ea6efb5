package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/validation"
)

// TodoHandler maps the /todos routes onto commands and queries. Errors are
// attached with c.Error and rendered by middleware.ErrorHandler.
type TodoHandler struct {
	commands *services.TodoCommands
	queries  *services.TodoQueries
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(commands *services.TodoCommands, queries *services.TodoQueries) *TodoHandler {
	return &TodoHandler{
		commands: commands,
		queries:  queries,
	}
}

// List returns every todo, newest first
func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.queries.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoDTOs(todos))
}

// ListActive returns todos that are not completed
func (h *TodoHandler) ListActive(c *gin.Context) {
	todos, err := h.queries.GetActive(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoDTOs(todos))
}

// ListCompleted returns completed todos
func (h *TodoHandler) ListCompleted(c *gin.Context) {
	todos, err := h.queries.GetCompleted(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoDTOs(todos))
}

// Stats returns counts by state and priority
func (h *TodoHandler) Stats(c *gin.Context) {
	stats, err := h.queries.GetStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoStatsDTO(*stats))
}

// Get returns a single todo
func (h *TodoHandler) Get(c *gin.Context) {
	todo, err := h.queries.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoDTO(*todo))
}

// Create creates a new todo
func (h *TodoHandler) Create(c *gin.Context) {
	var req validation.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.BindError(err))
		return
	}

	cmd, err := validation.CreateTodo(req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	todo, err := h.commands.CreateTodo(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.Created(c, dto.ToTodoDTO(*todo))
}

// Update applies a partial update
func (h *TodoHandler) Update(c *gin.Context) {
	var req validation.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.BindError(err))
		return
	}

	cmd, err := validation.UpdateTodo(req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	todo, err := h.commands.UpdateTodo(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoDTO(*todo))
}

// Toggle flips the completed flag
func (h *TodoHandler) Toggle(c *gin.Context) {
	todo, err := h.commands.ToggleTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToTodoDTO(*todo))
}

// Delete removes a todo
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.commands.DeleteTodo(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.Message(c, "Todo deleted successfully")
}

// Generate suggests todos found in free text. Nothing is saved.
func (h *TodoHandler) Generate(c *gin.Context) {
	var req validation.GenerateTodosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.BindError(err))
		return
	}

	cmd, err := validation.GenerateTodos(req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	todos, err := h.commands.GenerateTodos(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	apierrors.OK(c, dto.ToGeneratedTodoDTOs(todos))
}
