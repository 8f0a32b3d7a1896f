package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/grupoterra/cotizador-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Description Get a paginated list of projects
// @Tags Projects
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["active"] = c.Query("active")

	projects, total, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range projects {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"projects": responses, "pagination": gin.H{"total": total}})
}

// @Summary Active Projects
// @Description Get the projects offered in the quotation flow
// @Tags Projects
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/active [get]
func (h *ProjectHandler) Active(c *gin.Context) {
	projects, err := h.projectService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range projects {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"projects": responses})
}

// @Summary Get Project
// @Description Get a project by ID
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	project, err := h.projectService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proyecto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Create Project
// @Description Create a new project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body models.Project true "Project Data"
// @Success 201 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var project models.Project
	if err := BindNestedOrFlat(c, "project", &project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectService.Create(c.Request.Context(), &project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project.ToResponse()})
}

// @Summary Update Project
// @Description Update an existing project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body models.Project true "Project Data"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	var project models.Project
	if err := BindNestedOrFlat(c, "project", &project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project.ID = uint(id)

	if err := h.projectService.Update(c.Request.Context(), &project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Delete Project
// @Description Delete a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	if err := h.projectService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proyecto eliminado"})
}

// @Summary List Project Blocks
// @Description Get the active blocks of a project
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/blocks [get]
func (h *ProjectHandler) Blocks(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	blocks, err := h.projectService.ListBlocks(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proyecto no encontrado"})
		return
	}

	var responses []interface{}
	for _, b := range blocks {
		responses = append(responses, b.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"blocks": responses})
}

type BlockHandler struct {
	blockService *services.BlockService
}

func NewBlockHandler(blockService *services.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// @Summary Get Block
// @Description Get a block by ID
// @Tags Blocks
// @Produce json
// @Param block_id path int true "Block ID"
// @Success 200 {object} models.BlockResponse
// @Security BearerAuth
// @Router /blocks/{block_id} [get]
func (h *BlockHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	block, err := h.blockService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manzana no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"block": block.ToResponse()})
}

// @Summary Create Block
// @Description Create a new block in a project
// @Tags Blocks
// @Accept json
// @Produce json
// @Param request body models.Block true "Block Data"
// @Success 201 {object} models.BlockResponse
// @Security BearerAuth
// @Router /blocks [post]
func (h *BlockHandler) Create(c *gin.Context) {
	var block models.Block
	if err := BindNestedOrFlat(c, "block", &block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.blockService.Create(c.Request.Context(), &block); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"block": block.ToResponse()})
}

// @Summary Update Block
// @Description Update an existing block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param block_id path int true "Block ID"
// @Param request body models.Block true "Block Data"
// @Success 200 {object} models.BlockResponse
// @Security BearerAuth
// @Router /blocks/{block_id} [put]
func (h *BlockHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	var block models.Block
	if err := BindNestedOrFlat(c, "block", &block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	block.ID = uint(id)

	if err := h.blockService.Update(c.Request.Context(), &block); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"block": block.ToResponse()})
}

// @Summary Delete Block
// @Description Delete a block
// @Tags Blocks
// @Produce json
// @Param block_id path int true "Block ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /blocks/{block_id} [delete]
func (h *BlockHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	if err := h.blockService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manzana eliminada"})
}

// @Summary List Block Lots
// @Description Get the available lots of a block
// @Tags Blocks
// @Produce json
// @Param block_id path int true "Block ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /blocks/{block_id}/lots [get]
func (h *BlockHandler) Lots(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	lots, err := h.blockService.ListLots(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manzana no encontrada"})
		return
	}

	var responses []interface{}
	for _, l := range lots {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"lots": responses})
}

type LotHandler struct {
	lotService *services.LotService
}

func NewLotHandler(lotService *services.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// @Summary Get Lot
// @Description Get a lot by ID
// @Tags Lots
// @Produce json
// @Param lot_id path int true "Lot ID"
// @Success 200 {object} models.LotResponse
// @Security BearerAuth
// @Router /lots/{lot_id} [get]
func (h *LotHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lot_id"), 10, 32)
	lot, err := h.lotService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lote no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lot": lot.ToResponse()})
}

// @Summary Create Lot
// @Description Create a new lot in a block
// @Tags Lots
// @Accept json
// @Produce json
// @Param request body models.Lot true "Lot Data"
// @Success 201 {object} models.LotResponse
// @Security BearerAuth
// @Router /lots [post]
func (h *LotHandler) Create(c *gin.Context) {
	var lot models.Lot
	if err := BindNestedOrFlat(c, "lot", &lot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lotService.Create(c.Request.Context(), &lot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lot": lot.ToResponse()})
}

// @Summary Update Lot
// @Description Update an existing lot
// @Tags Lots
// @Accept json
// @Produce json
// @Param lot_id path int true "Lot ID"
// @Param request body models.Lot true "Lot Data"
// @Success 200 {object} models.LotResponse
// @Security BearerAuth
// @Router /lots/{lot_id} [put]
func (h *LotHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lot_id"), 10, 32)
	var lot models.Lot
	if err := BindNestedOrFlat(c, "lot", &lot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lot.ID = uint(id)

	if err := h.lotService.Update(c.Request.Context(), &lot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lot": lot.ToResponse()})
}

// @Summary Delete Lot
// @Description Delete a lot
// @Tags Lots
// @Produce json
// @Param lot_id path int true "Lot ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /lots/{lot_id} [delete]
func (h *LotHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lot_id"), 10, 32)
	if err := h.lotService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lote eliminado"})
}

type UpdateLotStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update Lot Status
// @Description Move a lot between available, reserved and sold
// @Tags Lots
// @Accept json
// @Produce json
// @Param lot_id path int true "Lot ID"
// @Param request body UpdateLotStatusRequest true "New Status"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /lots/{lot_id}/status [put]
func (h *LotHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lot_id"), 10, 32)
	var req UpdateLotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado es requerido"})
		return
	}

	if err := h.lotService.UpdateStatus(c.Request.Context(), uint(id), req.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estado actualizado"})
}
