package constant

const (
	MsgWelcome = "👋 Welcome to the *Field Survey Report Bot*!\n\nPick a segment to start a report, or browse the menus below:"

	MsgPickCategory   = "📍 Segment *%s* selected.\nPick a category:"
	MsgPickDesignator = "📦 Category *%s* selected.\nPick a designator:"
	MsgSendEvidence   = "📸 Send photo evidence of the work.\nTap *Done* when all photos are in."
	MsgEvidenceSaved  = "✅ Photo %d saved. Send another, or tap *Done*."
	MsgShareLocation  = "📍 Share the work location (attach → location)."
	MsgWriteNote      = "📝 Write a short note describing the work."
	MsgNeedEvidence   = "⚠️ At least one photo is required before moving on."

	MsgSummary = "📋 *REPORT SUMMARY*\n\n🔧 Designator: *%s*\n🗂 Segment: %s / %s\n📸 Photos: %d\n📍 Location: %.5f, %.5f\n📝 Note: %s\n\nSubmit this report?"

	MsgSubmitted        = "✅ Report submitted. Total value: *%s*.\nUse /start to file another."
	MsgAlreadySubmitted = "✅ This report was already submitted."
	MsgCancelled        = "🚫 Report cancelled. Use /start to begin again."

	MsgSessionNotActive = "⚠️ No active report at this step. Use /start to begin."
	MsgCatalogDown      = "❌ Could not load reference data. Please try again."
	MsgUploadFailed     = "❌ Photo upload failed. Please resend the photo."
	MsgSaveFailed       = "❌ Could not save your report right now. Please try again."
	MsgDesignatorGone   = "❌ Designator values are unavailable right now. Try *Submit* again, or cancel."
	MsgBusy             = "⏳ Still processing your previous action, please wait a moment."

	MsgReportPickSegment  = "Pick a segment to view its report:"
	MsgReportEmpty        = "No submitted reports for this segment yet."
	MsgInfoPickCategory   = "Pick a category:"
	MsgInfoPickDesignator = "Category: *%s*"
	MsgInfoNotFound       = "❌ Designator not found."

	BtnDone    = "✅ Done"
	BtnConfirm = "✅ Submit"
	BtnCancel  = "❌ Cancel"
	BtnReport  = "📊 REPORT"
	BtnInfo    = "ℹ️ INFO"
)
