package controller

// User-facing texts. They match what the web client shows so both
// front-ends read the same.
const (
	msgEnterTitle   = "Please enter a task title"
	msgAdded        = "Task added successfully!"
	msgAddFailed    = "Error adding task"
	msgCompleted    = "Task completed!"
	msgReopened     = "Task reopened!"
	msgUpdated      = "Task updated successfully!"
	msgUpdateFailed = "Error updating task"
	msgDeleted      = "Task deleted successfully!"
	msgDeleteFailed = "Error deleting task"
	msgLoadFailed   = "Error loading tasks"
	msgRefreshing   = "Refreshing data..."

	msgCreatedViaAI   = "New task created via AI!"
	msgCompletedViaAI = "Task marked as completed via AI!"
	msgDeletedViaAI   = "Task deleted via AI!"

	// ConfirmDelete is the question asked before a task is deleted.
	ConfirmDelete = "Are you sure you want to delete this task?"

	chatThinking      = "Thinking..."
	chatRejected      = "Sorry, I encountered an error. Please try again."
	chatUnreachable   = "Sorry, I'm having trouble connecting right now. Please try again."
	insightsPending   = "Let me analyze your tasks and provide some insights..."
	insightsRejected  = "Sorry, I couldn't generate insights right now. Please try again."
	insightsFailed    = "Sorry, I'm having trouble analyzing your tasks right now."
	suggestAsk        = "Can you suggest some tasks for: "
	suggestPending    = "Let me suggest some tasks for you..."
	suggestHeader     = "Here are some task suggestions:\n\n"
	suggestFooter     = "\nWould you like me to add any of these tasks to your list?"
	suggestFailed     = "Sorry, I couldn't generate suggestions right now. Please try again."
	suggestGenericTip = "Here are some general suggestions:\n\n" +
		"1. Break down large tasks into smaller steps\n" +
		"2. Set specific deadlines for your goals\n" +
		"3. Prioritize tasks based on urgency and importance\n" +
		"4. Review and adjust your task list regularly"
)

// Welcome is the assistant's greeting shown on start-up.
const Welcome = "Hello! I'm your AI assistant. I can help you manage your tasks using natural language! Try commands like:\n\n" +
	"• \"Create a new task: Buy groceries\"\n" +
	"• \"Add task: Call dentist with high priority\"\n" +
	"• \"Mark shopping as completed\"\n" +
	"• \"Delete task about meeting\"\n\n" +
	"I can also provide productivity insights and chat about your goals. How can I help you today?"
