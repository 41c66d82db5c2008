package assistant

// Заготовки содержимого разделов. HTML, как его отдаёт редактор.
var sectionTemplates = map[string]string{
	"executive-summary": `<h3>Executive Summary</h3>
<p>We are pleased to present this comprehensive proposal for {clientName}. Our proposed solution addresses the key challenges you've outlined while delivering measurable value and competitive advantage.</p>
<p><strong>The Challenge:</strong> Based on our analysis, {clientName} faces [specific challenge] that impacts [business area].</p>
<p><strong>Our Solution:</strong> We recommend a strategic approach that combines [solution elements] to achieve [specific outcomes].</p>
<p><strong>Expected Outcomes:</strong> Implementation will result in [quantified benefits] within [timeframe].</p>`,

	"problem-statement": `<h3>Current Challenges</h3>
<p>{clientName} is experiencing challenges that are common in the {industry} sector:</p>
<ul>
<li><strong>Operational Inefficiencies:</strong> Current processes are not optimized for scale</li>
<li><strong>Technology Gaps:</strong> Legacy systems limit growth potential</li>
<li><strong>Competitive Pressure:</strong> Market demands require rapid adaptation</li>
</ul>
<p>These challenges translate to quantifiable business impact, including reduced productivity, increased costs, and missed opportunities.</p>`,

	"proposed-solution": `<h3>Recommended Solution</h3>
<p>Our comprehensive approach addresses {clientName}'s specific needs through a phased implementation:</p>
<h4>Phase 1: Assessment &amp; Strategy</h4>
<p>Complete analysis of current state and development of detailed implementation roadmap.</p>
<h4>Phase 2: Implementation</h4>
<p>Systematic deployment of solution components with continuous monitoring and optimization.</p>
<h4>Phase 3: Optimization &amp; Training</h4>
<p>Performance tuning and comprehensive training to ensure maximum value realization.</p>`,
}

const sectionTemplateDefault = `<h3>Section Content</h3>
<p>This section will address specific aspects of the proposal relevant to {clientName}'s needs.</p>
<p>Key points will be developed to ensure comprehensive coverage of requirements and deliverables.</p>`
