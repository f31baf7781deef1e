package app

// User-facing messages.
const (
	MsgLoadListsFailed  = "Failed to load lists"
	MsgLoadListFailed   = "Failed to load list"
	MsgCreateListFailed = "Failed to create list"
	MsgReuseFailed      = "Failed to reuse list"
	MsgListNameRequired = "List name is required"

	MsgAddItemFailed    = "Failed to add item"
	MsgUpdateItemFailed = "Failed to update item"
	MsgDeleteItemFailed = "Failed to delete item"
	MsgItemAdded        = "Item added!"
	MsgItemDeleted      = "Item deleted!"

	MsgMarkDoneFailed   = "Failed to mark list as done"
	MsgDeleteListFailed = "Failed to delete list"
	MsgRenameFailed     = "Failed to rename list"
	MsgMarkedDone       = "Shopping list marked as done!"
	MsgListDeleted      = "List deleted!"
	MsgListRenamed      = "List renamed!"

	MsgItemNameRequired = "Item name is required"
	MsgQuantityInvalid  = "Quantity must be a positive number"
)
