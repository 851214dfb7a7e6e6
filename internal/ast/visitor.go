package ast

// Visitor walks the tree via Node.Accept.
type Visitor interface {
	VisitProgram(node *Program)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitAssignStatement(node *AssignStatement)
	VisitBlockStatement(node *BlockStatement)
	VisitIfStatement(node *IfStatement)
	VisitWhileStatement(node *WhileStatement)
	VisitForStatement(node *ForStatement)
	VisitFunctionStatement(node *FunctionStatement)
	VisitClassStatement(node *ClassStatement)
	VisitReturnStatement(node *ReturnStatement)
	VisitBreakStatement(node *BreakStatement)
	VisitContinueStatement(node *ContinueStatement)

	VisitIdentifier(node *Identifier)
	VisitIntegerLiteral(node *IntegerLiteral)
	VisitFloatLiteral(node *FloatLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitBooleanLiteral(node *BooleanLiteral)
	VisitNullLiteral(node *NullLiteral)
	VisitListLiteral(node *ListLiteral)
	VisitPrefixExpression(node *PrefixExpression)
	VisitInfixExpression(node *InfixExpression)
	VisitCallExpression(node *CallExpression)
	VisitMemberExpression(node *MemberExpression)
	VisitIndexExpression(node *IndexExpression)
	VisitFunctionLiteral(node *FunctionLiteral)
}
