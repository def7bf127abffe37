package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockware/stockroom/internal/engine"
	"github.com/stockware/stockroom/internal/task/usecase/command"
	"github.com/stockware/stockroom/internal/task/usecase/query"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/logger"
)

// TaskHandler handles HTTP requests for the task workflow
type TaskHandler struct {
	saveTask         *command.SaveTaskHandler
	updateTaskStatus *command.UpdateTaskStatusHandler
	deleteTask       *command.DeleteTaskHandler
	savePeriodic     *command.SavePeriodicTaskHandler
	deletePeriodic   *command.DeletePeriodicTasksHandler
	completePeriodic *command.CompletePeriodicTaskHandler
	listTasks        *query.ListTasksHandler
	taskHistory      *query.TaskHistoryHandler
	listPeriodic     *query.ListPeriodicTasksHandler
	publisher        *kafka.Publisher
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(
	saveTask *command.SaveTaskHandler,
	updateTaskStatus *command.UpdateTaskStatusHandler,
	deleteTask *command.DeleteTaskHandler,
	savePeriodic *command.SavePeriodicTaskHandler,
	deletePeriodic *command.DeletePeriodicTasksHandler,
	completePeriodic *command.CompletePeriodicTaskHandler,
	listTasks *query.ListTasksHandler,
	taskHistory *query.TaskHistoryHandler,
	listPeriodic *query.ListPeriodicTasksHandler,
	publisher *kafka.Publisher,
) *TaskHandler {
	return &TaskHandler{
		saveTask:         saveTask,
		updateTaskStatus: updateTaskStatus,
		deleteTask:       deleteTask,
		savePeriodic:     savePeriodic,
		deletePeriodic:   deletePeriodic,
		completePeriodic: completePeriodic,
		listTasks:        listTasks,
		taskHistory:      taskHistory,
		listPeriodic:     listPeriodic,
		publisher:        publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Changed []string    `json:"changed,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type taskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"due_date"`
	Assignee      string     `json:"assignee"`
	EquipmentID   *uint      `json:"equipment_id"`
	Status        string     `json:"status"`
	IsReplacement bool       `json:"is_replacement"`
	Parts         []struct {
		EquipmentPartID uint `json:"equipment_part_id"`
		PartID          uint `json:"part_id"`
		Qty             int  `json:"qty"`
	} `json:"parts"`
}

func (req taskRequest) toCommand(taskID uint) command.SaveTaskCommand {
	cmd := command.SaveTaskCommand{
		TaskID:        taskID,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		Assignee:      req.Assignee,
		EquipmentID:   req.EquipmentID,
		Status:        req.Status,
		IsReplacement: req.IsReplacement,
	}
	for _, p := range req.Parts {
		cmd.Parts = append(cmd.Parts, command.TaskPartInput{
			EquipmentPartID: p.EquipmentPartID,
			PartID:          p.PartID,
			Qty:             p.Qty,
		})
	}
	return cmd
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	views, err := h.listTasks.Handle(r.Context(), query.ListTasksQuery{
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list tasks")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list tasks",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: views})
}

// TaskHistory handles GET /api/tasks/history
func (h *TaskHandler) TaskHistory(w http.ResponseWriter, r *http.Request) {
	q := query.TaskHistoryQuery{Assignee: r.URL.Query().Get("assignee")}
	if from, err := time.Parse("2006-01-02", r.URL.Query().Get("from")); err == nil {
		q.From = &from
	}
	if to, err := time.Parse("2006-01-02", r.URL.Query().Get("to")); err == nil {
		q.To = &to
	}
	if id, err := strconv.ParseUint(r.URL.Query().Get("equipment_id"), 10, 32); err == nil {
		q.EquipmentID = uint(id)
	}

	views, err := h.taskHistory.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load task history")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load task history",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: views})
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.saveTask.Handle(r.Context(), req.toCommand(0))
	h.respondResult(w, r, "task.create", result, err)
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.saveTask.Handle(r.Context(), req.toCommand(id))
	h.respondResult(w, r, "task.update", result, err)
}

// UpdateTaskStatus handles PATCH /api/tasks/{id}/status
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.updateTaskStatus.Handle(r.Context(), command.UpdateTaskStatusCommand{
		TaskID: id,
		Status: req.Status,
	})
	h.respondResult(w, r, "task.update_status", result, err)
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteTask.Handle(r.Context(), command.DeleteTaskCommand{TaskID: id})
	h.respondResult(w, r, "task.delete", result, err)
}

// ListPeriodicTasks handles GET /api/tasks/periodic
func (h *TaskHandler) ListPeriodicTasks(w http.ResponseWriter, r *http.Request) {
	q := query.ListPeriodicTasksQuery{}
	if within, err := strconv.Atoi(r.URL.Query().Get("due_within_days")); err == nil {
		q.DueWithinDays = &within
	}

	views, err := h.listPeriodic.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list periodic tasks")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list periodic tasks",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: views})
}

type periodicRequest struct {
	Title           string     `json:"title"`
	PeriodDays      int        `json:"period_days"`
	EquipmentID     *uint      `json:"equipment_id"`
	EquipmentPartID *uint      `json:"equipment_part_id"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
}

// CreatePeriodicTask handles POST /api/tasks/periodic
func (h *TaskHandler) CreatePeriodicTask(w http.ResponseWriter, r *http.Request) {
	h.savePeriodicTask(w, r, 0, "task.periodic_create")
}

// UpdatePeriodicTask handles PUT /api/tasks/periodic/{id}
func (h *TaskHandler) UpdatePeriodicTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.savePeriodicTask(w, r, id, "task.periodic_update")
}

func (h *TaskHandler) savePeriodicTask(w http.ResponseWriter, r *http.Request, id uint, operation string) {
	var req periodicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.savePeriodic.Handle(r.Context(), command.SavePeriodicTaskCommand{
		TaskID:          id,
		Title:           req.Title,
		PeriodDays:      req.PeriodDays,
		EquipmentID:     req.EquipmentID,
		EquipmentPartID: req.EquipmentPartID,
		LastCompletedAt: req.LastCompletedAt,
	})
	h.respondResult(w, r, operation, result, err)
}

// CompletePeriodicTask handles POST /api/tasks/periodic/{id}/complete
func (h *TaskHandler) CompletePeriodicTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		CompletedAt *time.Time `json:"completed_at"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	cmd := command.CompletePeriodicTaskCommand{TaskID: id}
	if req.CompletedAt != nil {
		cmd.CompletedAt = *req.CompletedAt
	}

	result, err := h.completePeriodic.Handle(r.Context(), cmd)
	h.respondResult(w, r, "task.periodic_complete", result, err)
}

// DeletePeriodicTasks handles DELETE /api/tasks/periodic
func (h *TaskHandler) DeletePeriodicTasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskIDs []uint `json:"task_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.deletePeriodic.Handle(r.Context(), command.DeletePeriodicTasksCommand{TaskIDs: req.TaskIDs})
	h.respondResult(w, r, "task.periodic_delete", result, err)
}

// RegisterRoutes registers all task routes. Periodic routes go first so
// "periodic" is never parsed as a task id.
func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/tasks/periodic", h.ListPeriodicTasks).Methods("GET")
	router.HandleFunc("/api/tasks/periodic", h.CreatePeriodicTask).Methods("POST")
	router.HandleFunc("/api/tasks/periodic", h.DeletePeriodicTasks).Methods("DELETE")
	router.HandleFunc("/api/tasks/periodic/{id}", h.UpdatePeriodicTask).Methods("PUT")
	router.HandleFunc("/api/tasks/periodic/{id}/complete", h.CompletePeriodicTask).Methods("POST")
	router.HandleFunc("/api/tasks/history", h.TaskHistory).Methods("GET")
	router.HandleFunc("/api/tasks", h.ListTasks).Methods("GET")
	router.HandleFunc("/api/tasks", h.CreateTask).Methods("POST")
	router.HandleFunc("/api/tasks/{id}", h.UpdateTask).Methods("PUT")
	router.HandleFunc("/api/tasks/{id}/status", h.UpdateTaskStatus).Methods("PATCH")
	router.HandleFunc("/api/tasks/{id}", h.DeleteTask).Methods("DELETE")
}

func (h *TaskHandler) respondResult(w http.ResponseWriter, r *http.Request, operation string, result engine.Result, err error) {
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("operation", operation).Msg("Command failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Internal error",
		})
		return
	}
	if !result.Success {
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   result.Message,
		})
		return
	}

	h.publishChanged(r.Context(), operation, result)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result.Data,
		Changed: result.ChangedNames(),
	})
}

func (h *TaskHandler) publishChanged(ctx context.Context, operation string, result engine.Result) {
	if h.publisher == nil || len(result.Changed) == 0 {
		return
	}
	event := kafka.AggregatesChangedEvent{
		Operation:  operation,
		Aggregates: result.ChangedNames(),
		Message:    result.Message,
	}
	if err := h.publisher.PublishAggregatesChanged(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("operation", operation).Msg("Failed to publish change event")
	}
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[key], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid " + key,
		})
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
