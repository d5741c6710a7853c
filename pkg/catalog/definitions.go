package catalog

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskgrid/copilot/pkg/tools"
)

type definition struct {
	group  Group
	action Action // non-empty only for write tools that single-action narrowing may keep
	tool   tools.Tool
}

func fn(name, description string, properties map[string]any, required ...string) tools.Tool {
	if properties == nil {
		properties = map[string]any{}
	}
	return tools.Tool{
		Type: tools.ToolTypeFunction,
		Function: &tools.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: mcp.ToolInputSchema{
				Type:       "object",
				Properties: properties,
				Required:   required,
			},
		},
	}
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func strArray(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

var definitions = []definition{
	// Core: always exposed regardless of classification. The model
	// must always be able to look things up and ask for more
	// capabilities.
	{group: GroupCore, tool: fn("searchWorkspace",
		"Search every entity type in the workspace at once.",
		map[string]any{"query": str("Free-text search query.")}, "query")},
	{group: GroupCore, tool: fn("resolveEntity",
		"Resolve an entity reference (name or partial id) to its id and type.",
		map[string]any{"reference": str("Name or partial id to resolve."), "entityType": str("Optional entity type hint.")}, "reference")},
	{group: GroupCore, tool: fn(EscalationTool,
		"Request access to additional tool groups when the currently available tools cannot complete the command.",
		map[string]any{"groups": strArray("Tool groups needed, e.g. tasks, tables, timelines."), "reason": str("Why the groups are needed.")}, "groups")},
	{group: GroupCore, tool: fn("searchTasks",
		"Search tasks by text, status or assignee.",
		map[string]any{"query": str("Free-text query."), "status": str("Optional status filter."), "projectId": str("Optional project scope.")})},
	{group: GroupCore, tool: fn("searchProjects",
		"Search projects by name.",
		map[string]any{"query": str("Free-text query.")})},
	{group: GroupCore, tool: fn("searchTables",
		"Search tables by title.",
		map[string]any{"query": str("Free-text query.")})},
	{group: GroupCore, tool: fn("searchDocs",
		"Search documents by title or body.",
		map[string]any{"query": str("Free-text query.")})},
	{group: GroupCore, tool: fn("searchFiles",
		"Search uploaded files by name.",
		map[string]any{"query": str("Free-text query.")})},

	// Tasks.
	{group: GroupTasks, action: ActionCreate, tool: fn("createTask",
		"Create a task.",
		map[string]any{"title": str("Task title."), "projectId": str("Project to create the task in."), "status": str("Initial status."), "assigneeId": str("Optional assignee.")}, "title")},
	{group: GroupTasks, action: ActionUpdate, tool: fn("updateTask",
		"Update one task's fields.",
		map[string]any{"taskId": str("Task to update."), "title": str("New title."), "status": str("New status."), "assigneeId": str("New assignee.")}, "taskId")},
	{group: GroupTasks, action: ActionUpdate, tool: fn("bulkUpdateTasks",
		"Update several tasks in one call.",
		map[string]any{"taskIds": strArray("Tasks to update."), "status": str("New status."), "assigneeId": str("New assignee.")}, "taskIds")},
	{group: GroupTasks, action: ActionDelete, tool: fn("deleteTask",
		"Delete a task.",
		map[string]any{"taskId": str("Task to delete.")}, "taskId")},
	{group: GroupTasks, action: ActionCreate, tool: fn("createBoardFromTasks",
		"Create a board view from a set of tasks, typically the result of a prior task search.",
		map[string]any{"title": str("Board title."), "taskIds": strArray("Tasks to place on the board."), "groupBy": str("Field to group columns by.")}, "title")},

	// Tables.
	{group: GroupTables, action: ActionCreate, tool: fn("createTable",
		"Create a table.",
		map[string]any{"title": str("Table title."), "tabId": str("Tab to place the table in.")}, "title")},
	{group: GroupTables, action: ActionUpdate, tool: fn("updateTable",
		"Update a table's title or settings.",
		map[string]any{"tableId": str("Table to update."), "title": str("New title.")}, "tableId")},
	{group: GroupTables, action: ActionDelete, tool: fn("deleteTable",
		"Delete a table.",
		map[string]any{"tableId": str("Table to delete.")}, "tableId")},
	{group: GroupTables, action: ActionCreate, tool: fn("createField",
		"Add a single column to a table.",
		map[string]any{"tableId": str("Table to extend."), "name": str("Column name."), "fieldType": str("Column type, defaults to text.")}, "tableId", "name")},
	{group: GroupTables, action: ActionCreate, tool: fn("bulkCreateFields",
		"Add several columns to a table in one call.",
		map[string]any{"tableId": str("Table to extend."), "fields": map[string]any{
			"type":        "array",
			"description": "Columns to add.",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":      map[string]any{"type": "string"},
					"fieldType": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		}}, "tableId", "fields")},
	{group: GroupTables, action: ActionCreate, tool: fn("createRow",
		"Append a row to a table.",
		map[string]any{"tableId": str("Table to append to."), "values": map[string]any{"type": "object", "description": "Column name to cell value."}}, "tableId")},
	{group: GroupTables, action: ActionCreate, tool: fn("bulkCreateRows",
		"Append several rows to a table in one call.",
		map[string]any{"tableId": str("Table to append to."), "rows": map[string]any{
			"type":        "array",
			"description": "Rows to append, each mapping column name to cell value.",
			"items":       map[string]any{"type": "object"},
		}}, "tableId", "rows")},

	// Projects.
	{group: GroupProjects, action: ActionCreate, tool: fn("createProject",
		"Create a project.",
		map[string]any{"name": str("Project name."), "clientId": str("Optional client.")}, "name")},
	{group: GroupProjects, action: ActionUpdate, tool: fn("updateProject",
		"Update a project.",
		map[string]any{"projectId": str("Project to update."), "name": str("New name."), "status": str("New status.")}, "projectId")},
	{group: GroupProjects, action: ActionDelete, tool: fn("deleteProject",
		"Delete a project.",
		map[string]any{"projectId": str("Project to delete.")}, "projectId")},

	// Timelines.
	{group: GroupTimelines, action: ActionCreate, tool: fn("createTimeline",
		"Create a timeline view.",
		map[string]any{"title": str("Timeline title."), "projectId": str("Project the timeline belongs to.")}, "title")},
	{group: GroupTimelines, action: ActionUpdate, tool: fn("updateTimeline",
		"Update a timeline.",
		map[string]any{"timelineId": str("Timeline to update."), "title": str("New title.")}, "timelineId")},
	{group: GroupTimelines, action: ActionCreate, tool: fn("addTimelineItem",
		"Add an item to a timeline.",
		map[string]any{"timelineId": str("Timeline to extend."), "title": str("Item title."), "startDate": str("ISO start date."), "endDate": str("ISO end date.")}, "timelineId", "title")},

	// Blocks.
	{group: GroupBlocks, action: ActionCreate, tool: fn("createBlock",
		"Create a content block on the canvas.",
		map[string]any{"blockType": str("Block type, e.g. text, heading, embed."), "content": str("Block content."), "tabId": str("Tab to place the block in.")}, "blockType")},
	{group: GroupBlocks, action: ActionUpdate, tool: fn("updateBlock",
		"Update a block's content.",
		map[string]any{"blockId": str("Block to update."), "content": str("New content.")}, "blockId")},
	{group: GroupBlocks, action: ActionDelete, tool: fn("deleteBlock",
		"Delete a block.",
		map[string]any{"blockId": str("Block to delete.")}, "blockId")},

	// Tabs.
	{group: GroupTabs, action: ActionCreate, tool: fn("createTab",
		"Create a tab in the current project.",
		map[string]any{"name": str("Tab name."), "projectId": str("Project to add the tab to.")}, "name")},
	{group: GroupTabs, action: ActionUpdate, tool: fn("updateTab",
		"Rename or reorder a tab.",
		map[string]any{"tabId": str("Tab to update."), "name": str("New name.")}, "tabId")},
	{group: GroupTabs, action: ActionDelete, tool: fn("deleteTab",
		"Delete a tab.",
		map[string]any{"tabId": str("Tab to delete.")}, "tabId")},

	// Docs.
	{group: GroupDocs, action: ActionCreate, tool: fn("createDoc",
		"Create a document.",
		map[string]any{"title": str("Document title."), "body": str("Initial body."), "projectId": str("Project the doc belongs to.")}, "title")},
	{group: GroupDocs, action: ActionUpdate, tool: fn("updateDoc",
		"Update a document.",
		map[string]any{"docId": str("Document to update."), "title": str("New title."), "body": str("New body.")}, "docId")},
	{group: GroupDocs, action: ActionDelete, tool: fn("deleteDoc",
		"Delete a document.",
		map[string]any{"docId": str("Document to delete.")}, "docId")},

	// Files.
	{group: GroupFiles, action: ActionCreate, tool: fn("attachFile",
		"Attach an uploaded file to an entity.",
		map[string]any{"fileId": str("File to attach."), "targetId": str("Entity to attach to.")}, "fileId", "targetId")},
	{group: GroupFiles, action: ActionDelete, tool: fn("deleteFile",
		"Delete an uploaded file.",
		map[string]any{"fileId": str("File to delete.")}, "fileId")},

	// Clients.
	{group: GroupClients, action: ActionCreate, tool: fn("createClient",
		"Create a client record.",
		map[string]any{"name": str("Client name."), "email": str("Contact email.")}, "name")},
	{group: GroupClients, action: ActionUpdate, tool: fn("updateClient",
		"Update a client record.",
		map[string]any{"clientId": str("Client to update."), "name": str("New name."), "email": str("New email.")}, "clientId")},
	{group: GroupClients, action: ActionDelete, tool: fn("deleteClient",
		"Delete a client record.",
		map[string]any{"clientId": str("Client to delete.")}, "clientId")},

	// Commerce catalog.
	{group: GroupCommerce, action: ActionCreate, tool: fn("createCatalogItem",
		"Create a commerce catalog item.",
		map[string]any{"name": str("Item name."), "price": map[string]any{"type": "number", "description": "Unit price."}}, "name")},
	{group: GroupCommerce, action: ActionUpdate, tool: fn("updateCatalogItem",
		"Update a commerce catalog item.",
		map[string]any{"itemId": str("Item to update."), "name": str("New name."), "price": map[string]any{"type": "number", "description": "New unit price."}}, "itemId")},
	{group: GroupCommerce, action: ActionDelete, tool: fn("deleteCatalogItem",
		"Delete a commerce catalog item.",
		map[string]any{"itemId": str("Item to delete.")}, "itemId")},
}
